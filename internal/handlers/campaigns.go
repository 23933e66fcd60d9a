package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/services"
)

// CampaignHandler serves campaign CRUD and campaign metrics
type CampaignHandler struct {
	logger      *logger.Logger
	campaignSvc services.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(logger *logger.Logger, campaignSvc services.CampaignService) *CampaignHandler {
	return &CampaignHandler{logger: logger, campaignSvc: campaignSvc}
}

// RegisterRoutes registers campaign routes on the API subrouter
func (h *CampaignHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/campaigns", h.ListCampaigns).Methods("GET")
	router.HandleFunc("/campaigns", h.CreateCampaign).Methods("POST")
	router.HandleFunc("/campaigns/{id}", h.GetCampaign).Methods("GET")
	router.HandleFunc("/campaigns/{id}", h.UpdateCampaign).Methods("PATCH", "PUT")
	router.HandleFunc("/campaigns/{id}", h.DeleteCampaign).Methods("DELETE")
	router.HandleFunc("/campaigns/{id}/metrics", h.GetCampaignMetrics).Methods("GET")
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignSvc.ListCampaigns(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, "Failed to list campaigns", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign models.Campaign
	if err := decodeJSON(r, &campaign); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.campaignSvc.CreateCampaign(r.Context(), &campaign)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to create campaign", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.campaignSvc.GetCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to get campaign", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var update models.CampaignUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	campaign, err := h.campaignSvc.UpdateCampaign(r.Context(), mux.Vars(r)["id"], &update)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to update campaign", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaignSvc.DeleteCampaign(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(h.logger, w, "Failed to delete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) GetCampaignMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.campaignSvc.GetCampaignMetrics(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to get campaign metrics", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, metrics)
}
