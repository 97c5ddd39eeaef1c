package controllers

import (
	"github.com/radhian/booking-reconciliation/handler"

	"github.com/gorilla/mux"
)

// RegisterReconciliationRoutes mounts the run trigger and the run log lookups.
func RegisterReconciliationRoutes(router *mux.Router, h *handler.ReconciliationHandler) {
	router.HandleFunc("/process_reconciliation", h.ProcessReconciliation).Methods("POST")
	router.HandleFunc("/get_result", h.GetResult).Methods("GET")

	runs := router.PathPrefix("/runs").Subrouter()
	runs.HandleFunc("", h.GetResult).Methods("GET")
	runs.HandleFunc("/{run_id:[0-9]+}", h.GetResult).Methods("GET")
}
