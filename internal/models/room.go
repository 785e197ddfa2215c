package models

import "time"

type Room struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	Availability  int     `json:"availability"`
}

// RoomInfo is the per-room payload returned by room lookups, keyed by room name.
type RoomInfo struct {
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	Availability  int     `json:"availability"`
}

type RoomDetails map[string]RoomInfo

// NewRoomDetails indexes rooms by name.
func NewRoomDetails(rooms []Room) RoomDetails {
	details := make(RoomDetails, len(rooms))
	for _, r := range rooms {
		details[r.Name] = RoomInfo{
			Description:   r.Description,
			PricePerNight: r.PricePerNight,
			Availability:  r.Availability,
		}
	}
	return details
}

// Confirmation is returned by a successful reservation.
type Confirmation struct {
	Room                  string  `json:"room"`
	Description           string  `json:"description"`
	PricePerNight         float64 `json:"price_per_night"`
	RemainingAvailability int     `json:"remaining_availability"`
	Message               string  `json:"message"`
}

type ReserveRoomRequest struct {
	RoomType string `json:"room_type"`
}

// ReservationEvent is fanned out to staff dashboards after each booking.
type ReservationEvent struct {
	Room                  string    `json:"room"`
	RemainingAvailability int       `json:"remaining_availability"`
	BookedAt              time.Time `json:"booked_at"`
}
