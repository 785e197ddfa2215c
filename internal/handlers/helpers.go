package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		soldOut    *services.SoldOutError
		upstream   *services.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validation.Fields, r))
	case errors.As(err, &notFound):
		fields := map[string]string{"valid_room_types": strings.Join(notFound.ValidNames, ", ")}
		writeJSON(w, http.StatusNotFound, errorRespWithFields("NOT_FOUND", notFound.Error(), fields, r))
	case errors.As(err, &soldOut):
		writeJSON(w, http.StatusConflict, errorResp("SOLD_OUT", soldOut.Error(), r))
	case errors.As(err, &upstream), errors.Is(err, services.ErrToolRoundLimit):
		logger.Error("assistant request failed", zap.String("request_id", r.Header.Get("X-Request-ID")), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", "The front desk assistant is unavailable. Please try again.", r))
	default:
		logger.Error("request failed", zap.String("request_id", r.Header.Get("X-Request-ID")), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
