package reconciliation

import (
	"context"
	"errors"
	"io"

	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/artifact"
	"github.com/radhian/booking-reconciliation/infra/db/dao"
	"github.com/radhian/booking-reconciliation/infra/db/model"
	"github.com/radhian/booking-reconciliation/infra/ingest"
	"github.com/radhian/booking-reconciliation/infra/locker"
	"github.com/radhian/booking-reconciliation/usecase/aggregator"
	"github.com/radhian/booking-reconciliation/usecase/matching"
	"github.com/radhian/booking-reconciliation/usecase/report"
)

var ErrRunInProgress = errors.New("a reconciliation run is already writing to this output directory")

type ReconciliationUsecase interface {
	ProcessReconciliation(ctx context.Context, req entity.RunRequest) (entity.RunOutcome, error)
	GetReconciliationResult(runID int64) (RunResult, error)
	// GetReconciliationResults lists runs newest first, limited to statusList when given.
	GetReconciliationResults(statusList ...int) ([]model.ReconciliationRun, error)
}

// RunResult is a stored run with the files it produced.
type RunResult struct {
	Run       model.ReconciliationRun           `json:"run"`
	Artifacts []model.ReconciliationRunArtifact `json:"artifacts"`
}

// IngestorFactory resolves the ingestor for an input file.
type IngestorFactory func(path string, opts ingest.Options) (ingest.Ingestor, error)

type Dependencies struct {
	Dao           dao.DaoMethod
	Aggregator    aggregator.Aggregator
	Engine        matching.Engine
	Builder       report.Builder
	Writer        artifact.Writer
	Locker        *locker.Locker
	IngestOptions ingest.Options
	// NewIngestor defaults to ingest.ForPath.
	NewIngestor IngestorFactory
	// Console receives the run summary; nil disables it.
	Console io.Writer
}

type reconciliationUsecase struct {
	dao           dao.DaoMethod
	aggregator    aggregator.Aggregator
	engine        matching.Engine
	builder       report.Builder
	writer        artifact.Writer
	locker        *locker.Locker
	ingestOptions ingest.Options
	newIngestor   IngestorFactory
	console       io.Writer
}

func NewReconciliationUsecase(deps Dependencies) ReconciliationUsecase {
	u := &reconciliationUsecase{
		dao:           deps.Dao,
		aggregator:    deps.Aggregator,
		engine:        deps.Engine,
		builder:       deps.Builder,
		writer:        deps.Writer,
		locker:        deps.Locker,
		ingestOptions: deps.IngestOptions,
		newIngestor:   deps.NewIngestor,
		console:       deps.Console,
	}
	if u.aggregator == nil && u.dao != nil {
		u.aggregator = aggregator.NewAggregator(u.dao)
	}
	if u.engine == nil {
		u.engine = matching.NewEngine(matching.DefaultEngineConfig())
	}
	if u.builder == nil {
		u.builder = report.NewBuilder(report.DefaultConfig())
	}
	if u.writer == nil {
		u.writer = artifact.NewWriter()
	}
	if u.locker == nil {
		u.locker = locker.New()
	}
	if u.newIngestor == nil {
		u.newIngestor = ingest.ForPath
	}
	return u
}
