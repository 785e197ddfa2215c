package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marina-frontdesk/internal/models"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNoAvailability = errors.New("room has no availability left")
)

// seedLockKey serializes first-boot seeding across processes sharing a database.
const seedLockKey = 7_246_001

// SeedRooms is the fixed inventory inserted into an empty store.
var SeedRooms = []models.Room{
	{
		Name:          "Deluxe Suite",
		Description:   "Spacious suite with a king bed, private balcony, and panoramic bay view.",
		PricePerNight: 420,
		Availability:  6,
	},
	{
		Name:          "Ocean View Room",
		Description:   "Elegant room with ocean-facing windows and a queen bed.",
		PricePerNight: 320,
		Availability:  4,
	},
	{
		Name:          "Garden View Room",
		Description:   "Cozy room overlooking the hotel gardens, ideal for couples.",
		PricePerNight: 250,
		Availability:  1,
	},
	{
		Name:          "Standard Room",
		Description:   "Comfortable, affordable option with all essential amenities.",
		PricePerNight: 180,
		Availability:  10,
	},
}

const createRoomsTable = `
	CREATE TABLE IF NOT EXISTS rooms (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price_per_night DOUBLE PRECISION NOT NULL CHECK (price_per_night >= 0),
		availability INTEGER NOT NULL CHECK (availability >= 0)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS rooms_name_lower_idx ON rooms (LOWER(name));
`

const roomColumns = `id, name, description, price_per_night, availability`

type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Initialize creates the rooms table if needed and seeds it when, and only when, it is empty.
// It reports whether the seed rows were inserted.
func (r *RoomRepo) Initialize(ctx context.Context) (bool, error) {
	if _, err := r.db.ExecContext(ctx, createRoomsTable); err != nil {
		return false, fmt.Errorf("failed to create rooms table: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", seedLockKey); err != nil {
		return false, fmt.Errorf("failed to acquire seed lock: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count rooms: %w", err)
	}
	if count > 0 {
		return false, tx.Commit()
	}

	for _, room := range SeedRooms {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (name, description, price_per_night, availability) VALUES ($1, $2, $3, $4)`,
			room.Name, room.Description, room.PricePerNight, room.Availability,
		)
		if err != nil {
			return false, fmt.Errorf("failed to seed room %q: %w", room.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed rooms: %w", err)
	}
	return true, nil
}

func (r *RoomRepo) FindByName(ctx context.Context, name string) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE LOWER(name) = LOWER($1)`

	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&room.ID, &room.Name, &room.Description, &room.PricePerNight, &room.Availability,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *RoomRepo) FindAll(ctx context.Context) ([]models.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
}

func (r *RoomRepo) FindAvailable(ctx context.Context) ([]models.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms WHERE availability > 0 ORDER BY id`)
}

func (r *RoomRepo) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DecrementAvailability takes one unit of the room in a single conditional statement, so two
// concurrent bookings of the last unit cannot both succeed. It returns the remaining count.
func (r *RoomRepo) DecrementAvailability(ctx context.Context, id int64) (int, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx,
		`UPDATE rooms SET availability = availability - 1
		 WHERE id = $1 AND availability > 0
		 RETURNING availability`,
		id,
	).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoAvailability
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (r *RoomRepo) list(ctx context.Context, query string) ([]models.Room, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.PricePerNight, &room.Availability); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
