package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/artifact"
	"github.com/radhian/booking-reconciliation/infra/db/model"
	"github.com/radhian/booking-reconciliation/utils"
)

// ProcessReconciliation runs the whole pipeline for one input file: ingest, load the
// internal dataset, match, build the report and write the artifacts. Files are written
// only after the report is complete.
func (u *reconciliationUsecase) ProcessReconciliation(ctx context.Context, req entity.RunRequest) (outcome entity.RunOutcome, err error) {
	req.Operator = strings.TrimSpace(req.Operator)
	if req.Operator == "" {
		req.Operator = consts.DefaultOperator
	}

	key, ok := u.tryAcquireLock(req.OutputDir)
	if !ok {
		return outcome, ErrRunInProgress
	}
	defer u.unlockProcess(key)

	runUUID := uuid.New().String()
	run, err := u.initRun(req, runUUID)
	if err != nil {
		log.Errorf("[ReconcileJob] Could not create run log: %v", err)
		return outcome, err
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[ReconcileJob] Panic recovered for RunID %d: %v\n%s", run.ID, r, debug.Stack())
			err = fmt.Errorf("reconciliation run %d panicked: %v", run.ID, r)
		}
		if err != nil {
			u.markRunFailed(run, req.Operator, err)
		}
	}()

	log.Infof("[ReconcileJob] Starting job for RunID: %d (%s)", run.ID, runUUID)
	started := time.Now()

	outcome, err = u.execute(ctx, run, req)
	if err != nil {
		log.Errorf("[ReconcileJob] RunID %d failed: %v", run.ID, err)
		return outcome, err
	}

	outcome.DurationMs = time.Since(started).Milliseconds()
	log.Infof("[ReconcileJob] Job completed for RunID %d in %dms", run.ID, outcome.DurationMs)
	return outcome, nil
}

func (u *reconciliationUsecase) execute(ctx context.Context, run *model.ReconciliationRun, req entity.RunRequest) (entity.RunOutcome, error) {
	var outcome entity.RunOutcome

	if _, err := os.Stat(req.InputPath); err != nil {
		return outcome, fmt.Errorf("input file %s: %w", req.InputPath, err)
	}

	opts := u.ingestOptions
	if req.Sheet != "" {
		opts.Sheet = req.Sheet
	}
	ingestor, err := u.newIngestor(req.InputPath, opts)
	if err != nil {
		return outcome, err
	}

	external, stats, err := ingestor.Ingest(req.InputPath)
	if err != nil {
		return outcome, fmt.Errorf("failed to ingest %s: %w", req.InputPath, err)
	}
	log.Infof("[ReconcileJob] Ingested %d external records (%d rows read)", len(external), stats.RowsRead)

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	dateRange := req.Range
	if dateRange.IsZero() {
		dateRange = externalDateRange(external)
	}

	dataset, err := u.aggregator.Load(ctx, dateRange, nil)
	if err != nil {
		return outcome, err
	}

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	matches := u.engine.Match(external, dataset.Records)

	rep := u.builder.Build(external, dataset.Records, matches, dataset.Cancelled(), entity.ReportMetadata{
		RunID:         run.RunUUID,
		InputFile:     req.InputPath,
		DateRange:     dateRange,
		IngestStats:   stats,
		InternalStats: dataset.Stats(),
	})

	files, err := u.writer.WriteAll(req.OutputDir, external, rep)
	if err != nil {
		return outcome, err
	}

	if err := u.recordArtifacts(run, files, req.Operator); err != nil {
		return outcome, err
	}

	if err := u.markRunFinished(run, req.Operator, rep.Summary); err != nil {
		return outcome, err
	}

	if u.console != nil {
		artifact.PrintSummary(u.console, rep)
	}

	outcome = entity.RunOutcome{
		RunID:     run.ID,
		ReportID:  run.RunUUID,
		Summary:   rep.Summary,
		Artifacts: make([]string, 0, len(files)),
	}
	for _, f := range files {
		outcome.Artifacts = append(outcome.Artifacts, f.Path)
	}
	return outcome, nil
}

// externalDateRange spans the tour dates of the external records, by calendar day.
func externalDateRange(external []entity.ExternalBookingRecord) entity.DateRange {
	var rng entity.DateRange
	for _, r := range external {
		if r.TourDate.IsZero() {
			continue
		}
		d := utils.DateOnly(r.TourDate)
		if rng.Start.IsZero() || d.Before(rng.Start) {
			rng.Start = d
		}
		if rng.End.IsZero() || d.After(rng.End) {
			rng.End = d
		}
	}
	return rng
}

func (u *reconciliationUsecase) markRunFinished(run *model.ReconciliationRun, operator string, summary entity.ReportSummary) error {
	result, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	run.Status = consts.StatusFinished
	run.TotalExternalRows = int64(summary.TotalExternal)
	run.MatchedRows = int64(summary.Perfect + summary.Partial)
	run.Result = string(result)
	run.UpdateTime = time.Now().Unix()
	run.UpdateBy = operator

	return u.dao.UpdateReconciliationRun(*run)
}

func (u *reconciliationUsecase) markRunFailed(run *model.ReconciliationRun, operator string, cause error) {
	run.Status = consts.StatusFailed
	run.ErrorMessage = cause.Error()
	run.UpdateTime = time.Now().Unix()
	run.UpdateBy = operator

	if err := u.dao.UpdateReconciliationRun(*run); err != nil {
		log.Errorf("[ReconcileJob] Failed to mark RunID %d as failed: %v", run.ID, err)
	}
}
