package dao

import (
	"fmt"

	"github.com/radhian/booking-reconciliation/infra/db/model"
)

func (d *dao) CreateReconciliationRunArtifact(payload model.ReconciliationRunArtifact) error {
	if err := d.db.Create(&payload).Error; err != nil {
		return fmt.Errorf("failed to save run artifact: %w", err)
	}
	return nil
}

func (d *dao) GetReconciliationRunArtifactsByRunID(runID int64) ([]model.ReconciliationRunArtifact, error) {
	var artifacts []model.ReconciliationRunArtifact
	if err := d.db.Where("reconciliation_run_id = ?", runID).Order("id ASC").Find(&artifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch run artifacts: %w", err)
	}
	return artifacts, nil
}
