package handler

import (
	"encoding/json"
	"net/http"

	usecase "github.com/radhian/booking-reconciliation/usecase/reconciliation"
)

type ReconciliationHandler struct {
	Usecase usecase.ReconciliationUsecase
	// DefaultOutputDir is used when a request names no output directory.
	DefaultOutputDir string
}

func NewReconciliationHandler(uc usecase.ReconciliationUsecase, defaultOutputDir string) *ReconciliationHandler {
	return &ReconciliationHandler{Usecase: uc, DefaultOutputDir: defaultOutputDir}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Status: "error", Message: message})
}
