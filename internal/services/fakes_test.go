package services

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"

	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/repository"
)

// memStore is an in-memory RoomStore holding the seed inventory.
type memStore struct {
	mu      sync.Mutex
	rooms   []models.Room
	failAll error
}

func newMemStore() *memStore {
	rooms := make([]models.Room, len(repository.SeedRooms))
	for i, r := range repository.SeedRooms {
		r.ID = int64(i + 1)
		rooms[i] = r
	}
	return &memStore{rooms: rooms}
}

func (s *memStore) FindByName(ctx context.Context, name string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	for _, r := range s.rooms {
		if strings.EqualFold(r.Name, name) {
			room := r
			return &room, nil
		}
	}
	return nil, repository.ErrRoomNotFound
}

func (s *memStore) FindAll(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	return append([]models.Room(nil), s.rooms...), nil
}

func (s *memStore) FindAvailable(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	var out []models.Room
	for _, r := range s.rooms {
		if r.Availability > 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Names(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.rooms))
	for _, r := range s.rooms {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *memStore) DecrementAvailability(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID != id {
			continue
		}
		if s.rooms[i].Availability <= 0 {
			return 0, repository.ErrNoAvailability
		}
		s.rooms[i].Availability--
		return s.rooms[i].Availability, nil
	}
	return 0, repository.ErrRoomNotFound
}

func (s *memStore) availability(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.Name == name {
			return r.Availability
		}
	}
	return -1
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ReservationEvent
	err    error
}

func (p *recordingPublisher) PublishReservation(ctx context.Context, event models.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

// scriptedReasoner replays canned replies and records every transcript it was shown.
type scriptedReasoner struct {
	mu          sync.Mutex
	replies     []*models.Message
	err         error
	transcripts [][]models.Message
}

func (r *scriptedReasoner) Complete(ctx context.Context, transcript []models.Message, tools []models.ToolSpec) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcripts = append(r.transcripts, append([]models.Message(nil), transcript...))
	if r.err != nil {
		return nil, r.err
	}
	if len(r.replies) == 0 {
		return nil, errors.New("script exhausted")
	}
	reply := r.replies[0]
	r.replies = r.replies[1:]
	copied := *reply
	return &copied, nil
}

// loopingReasoner asks for room details forever.
type loopingReasoner struct {
	calls int
}

func (r *loopingReasoner) Complete(ctx context.Context, transcript []models.Message, tools []models.ToolSpec) (*models.Message, error) {
	r.calls++
	return toolCallReply(ToolGetRoomDetails, `{"room_type":"all"}`), nil
}

func toolCallReply(name, args string) *models.Message {
	return &models.Message{
		Role:      models.RoleAssistant,
		ToolCalls: []models.ToolCall{{ID: "call_" + name, Name: name, Arguments: args}},
	}
}

func textReply(text string) *models.Message {
	return &models.Message{Role: models.RoleAssistant, Content: text}
}

type stubSpeech struct {
	text string
	err  error
}

func (s *stubSpeech) Synthesize(ctx context.Context, text string) (*models.Audio, error) {
	s.text = text
	if s.err != nil {
		return nil, s.err
	}
	return &models.Audio{MIMEType: "audio/L16;rate=24000", Data: []byte(text)}, nil
}

type stubImages struct {
	prompts []string
	err     error
}

func (s *stubImages) Generate(ctx context.Context, prompt string) (image.Image, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}
