package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/services"
)

// PerformanceHandler serves performance rows and the dashboard KPIs
type PerformanceHandler struct {
	logger         *logger.Logger
	performanceSvc services.PerformanceService
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(logger *logger.Logger, performanceSvc services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{logger: logger, performanceSvc: performanceSvc}
}

// RegisterRoutes registers performance and dashboard routes
func (h *PerformanceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard/metrics", h.GetDashboardMetrics).Methods("GET")
	router.HandleFunc("/performance", h.ListPerformance).Methods("GET")
	router.HandleFunc("/performance", h.RecordPerformance).Methods("POST")
}

// GetDashboardMetrics returns KPI tiles for ?period=30d
func (h *PerformanceHandler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.performanceSvc.DashboardMetrics(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		handleServiceError(h.logger, w, "Failed to get dashboard metrics", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, metrics)
}

// ListPerformance filters by campaign_id, platform, from and to
func (h *PerformanceHandler) ListPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PerformanceFilter{
		CampaignID: q.Get("campaign_id"),
		Platform:   q.Get("platform"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}

	rows, err := h.performanceSvc.ListPerformance(r.Context(), filter)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to list performance data", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, rows)
}

func (h *PerformanceHandler) RecordPerformance(w http.ResponseWriter, r *http.Request) {
	var row models.PerformanceData
	if err := decodeJSON(r, &row); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.performanceSvc.RecordPerformance(r.Context(), &row)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to record performance data", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}
