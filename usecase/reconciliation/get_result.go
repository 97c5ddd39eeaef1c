package reconciliation

import (
	"github.com/radhian/booking-reconciliation/infra/db/model"
)

func (u *reconciliationUsecase) GetReconciliationResults(statusList ...int) ([]model.ReconciliationRun, error) {
	if len(statusList) > 0 {
		return u.dao.GetReconciliationRunsByStatusList(statusList)
	}
	return u.dao.GetReconciliationRuns()
}

func (u *reconciliationUsecase) GetReconciliationResult(runID int64) (RunResult, error) {
	run, err := u.dao.GetReconciliationRunByID(runID)
	if err != nil {
		return RunResult{}, err
	}

	artifacts, err := u.dao.GetReconciliationRunArtifactsByRunID(runID)
	if err != nil {
		return RunResult{}, err
	}

	return RunResult{Run: run, Artifacts: artifacts}, nil
}
