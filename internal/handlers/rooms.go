package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
)

type roomDetailer interface {
	GetRoomDetails(ctx context.Context, roomType string) (models.RoomDetails, error)
}

type RoomHandler struct {
	rooms  roomDetailer
	logger *zap.Logger
}

func NewRoomHandler(rooms roomDetailer, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, logger: logger}
}

// List answers GET /rooms?type=... with the same filters the assistant uses.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	roomType := r.URL.Query().Get("type")
	if roomType == "" {
		roomType = "all"
	}

	details, err := h.rooms.GetRoomDetails(r.Context(), roomType)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}
