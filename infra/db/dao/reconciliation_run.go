package dao

import (
	"fmt"

	"github.com/jinzhu/gorm"
	"github.com/radhian/booking-reconciliation/infra/db/model"
)

func (d *dao) GetReconciliationRuns() ([]model.ReconciliationRun, error) {
	var runs []model.ReconciliationRun
	if err := d.db.Order("create_time DESC").Find(&runs).Error; err != nil {
		return nil, err
	}

	return runs, nil
}

func (d *dao) GetReconciliationRunsByStatusList(statusList []int) ([]model.ReconciliationRun, error) {
	var runs []model.ReconciliationRun
	if err := d.db.
		Where("status IN (?)", statusList).
		Order("create_time DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (d *dao) CreateReconciliationRun(payload *model.ReconciliationRun) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to create reconciliation run: %w", err)
	}
	return nil
}

func (d *dao) GetReconciliationRunByID(runID int64) (model.ReconciliationRun, error) {
	var run model.ReconciliationRun
	if err := d.db.First(&run, runID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return run, fmt.Errorf("%w: id %d", ErrRunNotFound, runID)
		}
		return run, fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	return run, nil
}

func (d *dao) UpdateReconciliationRun(run model.ReconciliationRun) error {
	if err := d.db.Save(&run).Error; err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}
