package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"performance-core/internal/logger"
	"performance-core/internal/services"
)

const maxBodyBytes = 5 << 20

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error       string            `json:"error"`
	Status      int               `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Details     string            `json:"details,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Destructive bool              `json:"destructive"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	response := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Destructive: true,
	}

	if err != nil {
		response.Details = err.Error()
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			response.Fields = verr.Fields
			response.Destructive = !verr.Local
		}
	}

	writeJSONResponse(w, statusCode, response)
}

// handleServiceError maps a service error class to a status code
func handleServiceError(log *logger.Logger, w http.ResponseWriter, message string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Local:
		writeErrorResponse(w, http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, services.ErrValidation):
		writeErrorResponse(w, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrUnsupportedPlatform):
		writeErrorResponse(w, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrInvalidState):
		writeErrorResponse(w, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrUnauthorized):
		writeErrorResponse(w, http.StatusUnauthorized, message, err)
	case errors.Is(err, services.ErrNotConnected):
		writeErrorResponse(w, http.StatusConflict, message, err)
	case errors.Is(err, services.ErrUpstream):
		log.WithError(err).Warn(message)
		writeErrorResponse(w, http.StatusBadGateway, message, err)
	default:
		log.WithError(err).Error(message)
		writeErrorResponse(w, http.StatusInternalServerError, message, nil)
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
