package reconciliation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/artifact"
	"github.com/radhian/booking-reconciliation/infra/db/model"
)

// initRun records the run before any work starts.
func (u *reconciliationUsecase) initRun(req entity.RunRequest, runUUID string) (*model.ReconciliationRun, error) {
	timeNowUnix := time.Now().Unix()

	processInfo := entity.ProcessMetadata{
		InputPath: req.InputPath,
		Sheet:     req.Sheet,
		OutputDir: req.OutputDir,
	}
	if !req.Range.Start.IsZero() {
		processInfo.StartTime = req.Range.Start.Unix()
	}
	if !req.Range.End.IsZero() {
		processInfo.EndTime = req.Range.End.Unix()
	}

	processInfoJSON, err := json.Marshal(processInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process info: %w", err)
	}

	run := &model.ReconciliationRun{
		RunUUID:            runUUID,
		ReconciliationType: consts.ReconciliationTypeBookingLedger,
		ProcessInfo:        string(processInfoJSON),
		Status:             consts.StatusRunning,
		Result:             "",
		CreateTime:         timeNowUnix,
		CreateBy:           req.Operator,
		UpdateTime:         timeNowUnix,
		UpdateBy:           req.Operator,
	}

	if err := u.dao.CreateReconciliationRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

func (u *reconciliationUsecase) recordArtifacts(run *model.ReconciliationRun, files []artifact.Artifact, operator string) error {
	timeNowUnix := time.Now().Unix()
	for _, f := range files {
		asset := model.ReconciliationRunArtifact{
			ReconciliationRunID: run.ID,
			DataType:            f.Kind,
			FileName:            f.FileName,
			FileUrl:             f.Path,
			CreateTime:          timeNowUnix,
			CreateBy:            operator,
		}
		if err := u.dao.CreateReconciliationRunArtifact(asset); err != nil {
			return err
		}
	}
	return nil
}
