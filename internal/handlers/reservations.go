package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"marina-frontdesk/internal/middleware"
	"marina-frontdesk/internal/models"
)

type roomReserver interface {
	CheckoutRoom(ctx context.Context, roomType string) (*models.Confirmation, error)
}

type ReservationHandler struct {
	reservations roomReserver
	logger       *zap.Logger
}

func NewReservationHandler(reservations roomReserver, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, logger: logger}
}

// Reserve books one unit on behalf of a guest at the desk.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req models.ReserveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.RoomType) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"room_type": "room_type is required"}, r))
		return
	}

	confirmation, err := h.reservations.CheckoutRoom(r.Context(), req.RoomType)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("staff reservation",
		zap.String("staff", middleware.GetStaffID(r.Context())),
		zap.String("room", confirmation.Room),
	)
	writeJSON(w, http.StatusCreated, confirmation)
}
