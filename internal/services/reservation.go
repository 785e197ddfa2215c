package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/repository"
)

type ReservationPublisher interface {
	PublishReservation(ctx context.Context, event models.ReservationEvent) error
}

type ReservationService struct {
	store     RoomStore
	publisher ReservationPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewReservationService(store RoomStore, publisher ReservationPublisher, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckoutRoom reserves one unit of the named room. It returns *NotFoundError for an unknown
// name and *SoldOutError when nothing is left, including when a concurrent booking took the
// last unit between the lookup and the decrement.
func (s *ReservationService) CheckoutRoom(ctx context.Context, roomType string) (*models.Confirmation, error) {
	room, err := s.store.FindByName(ctx, normalizeRoomType(roomType))
	if errors.Is(err, repository.ErrRoomNotFound) {
		// The guest's own wording goes back in the message, not the normalized form.
		return nil, notFound(ctx, s.store, roomType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up room: %w", err)
	}

	if room.Availability <= 0 {
		return nil, &SoldOutError{Room: room.Name}
	}

	remaining, err := s.store.DecrementAvailability(ctx, room.ID)
	if errors.Is(err, repository.ErrNoAvailability) {
		return nil, &SoldOutError{Room: room.Name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve %s: %w", room.Name, err)
	}

	s.logger.Info("room reserved",
		zap.String("room", room.Name),
		zap.Int("remaining_availability", remaining),
	)

	event := models.ReservationEvent{
		Room:                  room.Name,
		RemainingAvailability: remaining,
		BookedAt:              s.now().UTC(),
	}
	if err := s.publisher.PublishReservation(ctx, event); err != nil {
		s.logger.Warn("failed to publish reservation event", zap.String("room", room.Name), zap.Error(err))
	}

	return &models.Confirmation{
		Room:                  room.Name,
		Description:           room.Description,
		PricePerNight:         room.PricePerNight,
		RemainingAvailability: remaining,
		Message:               fmt.Sprintf("Reservation confirmed for %s.", room.Name),
	}, nil
}
