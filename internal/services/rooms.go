package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/repository"
)

// RoomStore is the slice of the inventory repository the room services need.
type RoomStore interface {
	FindByName(ctx context.Context, name string) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	FindAvailable(ctx context.Context) ([]models.Room, error)
	Names(ctx context.Context) ([]string, error)
	DecrementAvailability(ctx context.Context, id int64) (int, error)
}

type RoomService struct {
	store RoomStore
}

func NewRoomService(store RoomStore) *RoomService {
	return &RoomService{store: store}
}

// GetRoomDetails resolves "all"/"rooms", "available", or a room name (case-insensitive).
func (s *RoomService) GetRoomDetails(ctx context.Context, roomType string) (models.RoomDetails, error) {
	query := normalizeRoomType(roomType)

	var rooms []models.Room
	var err error
	switch query {
	case "all", "rooms":
		rooms, err = s.store.FindAll(ctx)
	case "available":
		rooms, err = s.store.FindAvailable(ctx)
	default:
		var room *models.Room
		room, err = s.store.FindByName(ctx, query)
		if errors.Is(err, repository.ErrRoomNotFound) {
			err = nil
		} else if room != nil {
			rooms = []models.Room{*room}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up rooms: %w", err)
	}

	if len(rooms) == 0 {
		return nil, notFound(ctx, s.store, query)
	}
	return models.NewRoomDetails(rooms), nil
}

func normalizeRoomType(roomType string) string {
	return strings.ToLower(strings.TrimSpace(roomType))
}

func notFound(ctx context.Context, store RoomStore, query string) error {
	names, err := store.Names(ctx)
	if err != nil {
		return fmt.Errorf("failed to list room names: %w", err)
	}
	return &NotFoundError{Query: query, ValidNames: names}
}
