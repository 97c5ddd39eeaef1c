package handler

import (
	"context"
	"errors"

	"github.com/radhian/booking-reconciliation/entity"
	usecase "github.com/radhian/booking-reconciliation/usecase/reconciliation"
)

var ErrNoProcessHandled = errors.New("no process handled")

// ReconciliationExecution runs one scheduled reconciliation. A run already holding the
// output directory is reported as ErrNoProcessHandled.
func (h *ReconciliationHandler) ReconciliationExecution(ctx context.Context, req entity.RunRequest) (entity.RunOutcome, error) {
	if req.OutputDir == "" {
		req.OutputDir = h.DefaultOutputDir
	}

	outcome, err := h.Usecase.ProcessReconciliation(ctx, req)
	if errors.Is(err, usecase.ErrRunInProgress) {
		return outcome, ErrNoProcessHandled
	}
	return outcome, err
}
