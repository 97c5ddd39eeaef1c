package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/config"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/controllers"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/handler"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Request  entity.RunRequest
}

// startReconcileExecutorWorker reruns the configured reconciliation until ctx is done.
func (cfg CronWorkerConfig) startReconcileExecutorWorker(ctx context.Context, h *handler.ReconciliationHandler) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		outcome, err := h.ReconciliationExecution(ctx, cfg.Request)
		switch {
		case errors.Is(err, handler.ErrNoProcessHandled):
			log.Infof("[Worker] Skipped, %s is busy", cfg.Request.OutputDir)
		case err != nil:
			log.Errorf("[Worker] error: %s", err.Error())
		default:
			log.Infof("[Worker] Run %d success, match rate %.1f%%", outcome.RunID, outcome.Summary.MatchRate)
		}

		select {
		case <-ctx.Done():
			log.Infof("[Worker] Stopping")
			return
		case <-ticker.C:
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CronServer] %v", err)
	}

	app := controllers.App{}
	if err := app.Initialize(cfg, nil); err != nil {
		log.Fatalf("[CronServer] %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("[CronServer] Reconciling %s every %s", cfg.InputPath, cfg.ScheduleInterval)
	CronWorkerConfig{
		Interval: cfg.ScheduleInterval,
		Request: entity.RunRequest{
			InputPath: cfg.InputPath,
			Sheet:     cfg.Sheet,
			OutputDir: cfg.OutputDir,
			Operator:  consts.DefaultOperator,
		},
	}.startReconcileExecutorWorker(ctx, app.Handler)
}
