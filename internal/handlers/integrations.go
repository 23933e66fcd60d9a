package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/services"
)

// IntegrationHandler serves platform integrations and the OAuth connect flow
type IntegrationHandler struct {
	logger         *logger.Logger
	integrationSvc services.IntegrationService
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(logger *logger.Logger, integrationSvc services.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{logger: logger, integrationSvc: integrationSvc}
}

// RegisterRoutes registers integration routes. The OAuth callback is
// registered separately so it can skip bearer auth.
func (h *IntegrationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/integrations", h.ListIntegrations).Methods("GET")
	router.HandleFunc("/integrations", h.CreateIntegration).Methods("POST")
	router.HandleFunc("/integrations/{id}", h.UpdateIntegration).Methods("PATCH", "PUT")
	router.HandleFunc("/integrations/{id}", h.DeleteIntegration).Methods("DELETE")
	router.HandleFunc("/integrations/oauth/{platform}/connect", h.StartOAuth).Methods("GET")
}

// RegisterCallbackRoutes registers the OAuth redirect target
func (h *IntegrationHandler) RegisterCallbackRoutes(router *mux.Router) {
	router.HandleFunc("/integrations/oauth/{platform}/callback", h.OAuthCallback).Methods("GET")
}

func (h *IntegrationHandler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.integrationSvc.ListIntegrations(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, "Failed to list integrations", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, integrations)
}

func (h *IntegrationHandler) CreateIntegration(w http.ResponseWriter, r *http.Request) {
	var integration models.Integration
	if err := decodeJSON(r, &integration); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.integrationSvc.CreateIntegration(r.Context(), &integration)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to create integration", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, created)
}

func (h *IntegrationHandler) UpdateIntegration(w http.ResponseWriter, r *http.Request) {
	var update models.IntegrationUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	integration, err := h.integrationSvc.UpdateIntegration(r.Context(), mux.Vars(r)["id"], &update)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to update integration", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, integration)
}

func (h *IntegrationHandler) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	if err := h.integrationSvc.DeleteIntegration(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(h.logger, w, "Failed to delete integration", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartOAuth returns the consent URL and state for a platform
func (h *IntegrationHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	start, err := h.integrationSvc.StartOAuth(r.Context(), mux.Vars(r)["platform"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to start OAuth flow", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, start)
}

// OAuthCallback exchanges the authorization code returned by the platform
func (h *IntegrationHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		detail := providerErr
		if desc := q.Get("error_description"); desc != "" {
			detail += ": " + desc
		}
		writeErrorResponse(w, http.StatusBadRequest, "Authorization was not granted", errors.New(detail))
		return
	}

	integration, err := h.integrationSvc.CompleteOAuth(r.Context(), mux.Vars(r)["platform"], q.Get("state"), q.Get("code"))
	if err != nil {
		handleServiceError(h.logger, w, "Failed to complete OAuth flow", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, integration)
}
