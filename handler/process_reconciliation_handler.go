package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/infra/ingest"
	usecase "github.com/radhian/booking-reconciliation/usecase/reconciliation"
)

// ProcessReconciliation runs the pipeline synchronously and returns the run outcome.
func (h *ReconciliationHandler) ProcessReconciliation(w http.ResponseWriter, r *http.Request) {
	var req entity.ProcessReconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dateRange, err := ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warnf("[ProcessReconciliation] Invalid date input: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validateProcessReconciliationRequest(req); err != nil {
		log.Warnf("[ProcessReconciliation] Invalid input: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = h.DefaultOutputDir
	}

	outcome, err := h.Usecase.ProcessReconciliation(r.Context(), entity.RunRequest{
		InputPath: req.InputPath,
		Sheet:     req.Sheet,
		OutputDir: outputDir,
		Range:     dateRange,
		Operator:  req.Operator,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRunInProgress):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrNoHeader):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Errorf("[ProcessReconciliation] Run failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to process reconciliation")
		}
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: outcome})
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Empty strings leave a bound open.
func ParseDateRange(startDateStr, endDateStr string) (entity.DateRange, error) {
	const layout = "2006-01-02"
	var rng entity.DateRange

	if s := strings.TrimSpace(startDateStr); s != "" {
		startDate, err := time.Parse(layout, s)
		if err != nil {
			return rng, fmt.Errorf("invalid start date format: %v", err)
		}
		rng.Start = startDate
	}

	if s := strings.TrimSpace(endDateStr); s != "" {
		endDate, err := time.Parse(layout, s)
		if err != nil {
			return rng, fmt.Errorf("invalid end date format: %v", err)
		}
		rng.End = endDate
	}

	if !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start) {
		return entity.DateRange{}, errors.New("end date must not be before start date")
	}
	return rng, nil
}

func validateProcessReconciliationRequest(req entity.ProcessReconciliationRequest) error {
	if strings.TrimSpace(req.InputPath) == "" {
		return errors.New("input path is required")
	}
	if _, err := os.Stat(req.InputPath); os.IsNotExist(err) {
		return errors.New("input file does not exist")
	}
	return nil
}
