package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/config"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/controllers"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/handler"
	"github.com/spf13/cobra"
)

type cliFlags struct {
	input      string
	output     string
	sheet      string
	format     string
	from       string
	to         string
	similarity string
	operator   string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Reconcile an external booking ledger against the internal booking store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "external ledger file (.xlsx, .csv, .tsv)")
	f.StringVarP(&flags.output, "output", "o", "", "directory for the report artifacts")
	f.StringVar(&flags.sheet, "sheet", "", "worksheet to read from a workbook")
	f.StringVar(&flags.format, "format", "", "input format, overrides the file extension (xlsx, csv, tsv)")
	f.StringVar(&flags.from, "from", "", "first tour date to load from the store (YYYY-MM-DD)")
	f.StringVar(&flags.to, "to", "", "last tour date to load from the store (YYYY-MM-DD)")
	f.StringVar(&flags.similarity, "similarity", "", "string similarity: dice or levenshtein")
	f.StringVar(&flags.operator, "operator", consts.DefaultOperator, "name recorded on the run")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func runReconcile(cmd *cobra.Command, flags cliFlags) error {
	if flags.verbose {
		log.SetLevel(log.DEBUG)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.input != "" {
		cfg.InputPath = flags.input
	}
	if flags.output != "" {
		cfg.OutputDir = flags.output
	}
	if flags.sheet != "" {
		cfg.Sheet = flags.sheet
	}
	if flags.format != "" {
		cfg.InputFormat = flags.format
	}
	if flags.similarity != "" {
		cfg.Similarity = flags.similarity
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dateRange, err := handler.ParseDateRange(flags.from, flags.to)
	if err != nil {
		return err
	}

	app := controllers.App{}
	if err := app.Initialize(cfg, cmd.OutOrStdout()); err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome, err := app.Handler.ReconciliationExecution(ctx, entity.RunRequest{
		InputPath: cfg.InputPath,
		Sheet:     cfg.Sheet,
		OutputDir: cfg.OutputDir,
		Range:     dateRange,
		Operator:  flags.operator,
	})
	if err != nil {
		if errors.Is(err, handler.ErrNoProcessHandled) {
			return errors.New("another run is writing to " + cfg.OutputDir)
		}
		return err
	}

	log.Infof("[Reconcile] Run %d finished in %dms, %d artifacts in %s", outcome.RunID, outcome.DurationMs, len(outcome.Artifacts), cfg.OutputDir)
	return nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Errorf("[Reconcile] %v", err)
		os.Exit(1)
	}
}
