package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/services"
)

// WebhookTokenHeader carries the secret of a webhook data source
const WebhookTokenHeader = "X-Webhook-Token"

// DataSourceHandler serves data sources, column detection, mappings and webhooks
type DataSourceHandler struct {
	logger        *logger.Logger
	dataSourceSvc services.DataSourceService
	mappingSvc    services.MappingService
}

// NewDataSourceHandler creates a new data source handler
func NewDataSourceHandler(logger *logger.Logger, dataSourceSvc services.DataSourceService, mappingSvc services.MappingService) *DataSourceHandler {
	return &DataSourceHandler{logger: logger, dataSourceSvc: dataSourceSvc, mappingSvc: mappingSvc}
}

// CreateDataSourceResponse includes the webhook token, shown only once
type CreateDataSourceResponse struct {
	*models.DataSource
	WebhookToken string `json:"webhook_token,omitempty"`
}

// mappingsRequest is the body of mapping save and validate calls
type mappingsRequest struct {
	Mappings []models.FieldMapping `json:"mappings"`
}

// RegisterRoutes registers data source routes on the API subrouter
func (h *DataSourceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/campaigns/{campaignId}/data-sources", h.ListDataSources).Methods("GET")
	router.HandleFunc("/campaigns/{campaignId}/data-sources", h.CreateDataSource).Methods("POST")
	router.HandleFunc("/data-sources/{id}", h.GetDataSource).Methods("GET")
	router.HandleFunc("/data-sources/{id}", h.DeleteDataSource).Methods("DELETE")
	router.HandleFunc("/data-sources/{id}/columns", h.DetectColumns).Methods("GET")
	router.HandleFunc("/data-sources/{id}/columns/{index:[0-9]+}/values", h.ColumnValues).Methods("GET")
	router.HandleFunc("/data-sources/{id}/identifier", h.SetIdentifier).Methods("PUT")
	router.HandleFunc("/data-sources/{id}/mappings", h.GetMappings).Methods("GET")
	router.HandleFunc("/data-sources/{id}/mappings", h.SaveMappings).Methods("PUT")
	router.HandleFunc("/data-sources/{id}/mappings/auto", h.AutoMap).Methods("POST")
	router.HandleFunc("/data-sources/{id}/mappings/validate", h.ValidateMappings).Methods("POST")
	router.HandleFunc("/data-sources/{id}/sync", h.Sync).Methods("POST")
}

// RegisterWebhookRoutes registers webhook ingestion, which authenticates by token
func (h *DataSourceHandler) RegisterWebhookRoutes(router *mux.Router) {
	router.HandleFunc("/webhooks/{sourceId}", h.IngestWebhook).Methods("POST")
}

func (h *DataSourceHandler) ListDataSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.dataSourceSvc.ListDataSources(r.Context(), mux.Vars(r)["campaignId"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to list data sources", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, sources)
}

func (h *DataSourceHandler) CreateDataSource(w http.ResponseWriter, r *http.Request) {
	var source models.DataSource
	if err := decodeJSON(r, &source); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.dataSourceSvc.CreateDataSource(r.Context(), mux.Vars(r)["campaignId"], &source)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to create data source", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, CreateDataSourceResponse{DataSource: created, WebhookToken: created.WebhookToken})
}

func (h *DataSourceHandler) GetDataSource(w http.ResponseWriter, r *http.Request) {
	source, err := h.dataSourceSvc.GetDataSource(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to get data source", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, source)
}

func (h *DataSourceHandler) DeleteDataSource(w http.ResponseWriter, r *http.Request) {
	if err := h.dataSourceSvc.DeleteDataSource(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(h.logger, w, "Failed to delete data source", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DetectColumns returns detected columns; ?refresh=true re-reads the source
func (h *DataSourceHandler) DetectColumns(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	detection, err := h.dataSourceSvc.DetectColumns(r.Context(), mux.Vars(r)["id"], refresh)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to detect columns", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, detection)
}

func (h *DataSourceHandler) ColumnValues(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid column index", err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid limit", errors.New("limit must be a positive integer"))
			return
		}
	}

	values, err := h.dataSourceSvc.ColumnValues(r.Context(), vars["id"], index, limit)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to list column values", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"index":  index,
		"values": values,
	})
}

func (h *DataSourceHandler) SetIdentifier(w http.ResponseWriter, r *http.Request) {
	var req services.IdentifierRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	source, err := h.dataSourceSvc.SetIdentifier(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to update identifier", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, source)
}

func (h *DataSourceHandler) GetMappings(w http.ResponseWriter, r *http.Request) {
	state, err := h.mappingSvc.GetMappings(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to get mappings", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, state)
}

// SaveMappings replaces the mappings; invalid sets answer 422 with per-field errors
func (h *DataSourceHandler) SaveMappings(w http.ResponseWriter, r *http.Request) {
	var req mappingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.mappingSvc.SaveMappings(r.Context(), mux.Vars(r)["id"], req.Mappings)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to save mappings", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, state)
}

func (h *DataSourceHandler) AutoMap(w http.ResponseWriter, r *http.Request) {
	state, err := h.mappingSvc.AutoMap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to auto-map columns", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, state)
}

func (h *DataSourceHandler) ValidateMappings(w http.ResponseWriter, r *http.Request) {
	var req mappingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.mappingSvc.ValidateMappings(r.Context(), mux.Vars(r)["id"], req.Mappings)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to validate mappings", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

func (h *DataSourceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.dataSourceSvc.Sync(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(h.logger, w, "Failed to sync data source", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// IngestWebhook accepts a JSON object, an array of objects or {"rows": [...]}
func (h *DataSourceHandler) IngestWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(WebhookTokenHeader)
	if token == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "Missing webhook token", nil)
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rows, err := webhookRows(raw)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid webhook payload", err)
		return
	}

	n, err := h.dataSourceSvc.IngestWebhook(r.Context(), mux.Vars(r)["sourceId"], token, rows)
	if err != nil {
		handleServiceError(h.logger, w, "Failed to ingest webhook", err)
		return
	}
	writeJSONResponse(w, http.StatusAccepted, map[string]interface{}{"accepted": n})
}

func webhookRows(raw json.RawMessage) ([]map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}

	switch trimmed[0] {
	case '[':
		var rows []map[string]interface{}
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, errors.New("payload array must contain objects")
		}
		return rows, nil
	case '{':
		var envelope struct {
			Rows []map[string]interface{} `json:"rows"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Rows != nil {
			return envelope.Rows, nil
		}
		var row map[string]interface{}
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return nil, err
		}
		return []map[string]interface{}{row}, nil
	default:
		return nil, errors.New("payload must be an object or an array of objects")
	}
}
