package events

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
)

// ReservationsChannel carries one message per confirmed booking.
const ReservationsChannel = "frontdesk:reservations"

const TypeReservationConfirmed = "reservation_confirmed"

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) PublishReservation(ctx context.Context, event models.ReservationEvent) error {
	data, err := EncodeReservation(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ReservationsChannel, data).Err()
}

// EncodeReservation wraps the event in the envelope staff sockets receive.
func EncodeReservation(event models.ReservationEvent) ([]byte, error) {
	return sonic.Marshal(models.WSMessage{Type: TypeReservationConfirmed, Payload: event})
}

// LogPublisher stands in when Redis is not configured; bookings are only logged.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishReservation(ctx context.Context, event models.ReservationEvent) error {
	p.logger.Debug("reservation event (no broker configured)",
		zap.String("room", event.Room),
		zap.Int("remaining_availability", event.RemainingAvailability),
	)
	return nil
}
