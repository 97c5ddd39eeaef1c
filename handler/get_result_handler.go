package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/infra/db/dao"
)

// GetResult returns one stored run with its artifacts, or every run when run_id is absent.
// The listing can be narrowed with status=failed,running.
// run_id comes from the route when mounted under /runs, otherwise from the query string.
func (h *ReconciliationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	runIDStr := mux.Vars(r)["run_id"]
	if runIDStr == "" {
		runIDStr = r.URL.Query().Get("run_id")
	}
	if runIDStr == "" {
		statusList, err := parseStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		runs, err := h.Usecase.GetReconciliationResults(statusList...)
		if err != nil {
			log.Errorf("[GetResult] Failed to list runs: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to get results")
			return
		}
		writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: runs})
		return
	}

	runID, err := strconv.ParseInt(runIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "run_id must be a valid integer")
		return
	}

	result, err := h.Usecase.GetReconciliationResult(runID)
	if err != nil {
		if errors.Is(err, dao.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Errorf("[GetResult] Failed to load run %d: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: result})
}

// parseStatusFilter reads a comma separated list of run status names.
func parseStatusFilter(raw string) ([]int, error) {
	var statusList []int
	for _, name := range strings.Split(raw, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		status, ok := consts.RunStatusByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown run status %q", name)
		}
		statusList = append(statusList, status)
	}
	return statusList, nil
}
