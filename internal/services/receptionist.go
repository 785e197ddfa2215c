package services

import (
	"context"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
)

// Reasoner is the hosted model that writes replies and asks for tool calls.
type Reasoner interface {
	Complete(ctx context.Context, transcript []models.Message, tools []models.ToolSpec) (*models.Message, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*models.Audio, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (image.Image, error)
}

type ReceptionistOptions struct {
	SystemPrompt string
	// MaxToolRounds caps dispatch rounds per invocation. Zero means no cap.
	MaxToolRounds int
	// Speech and Images are optional and only used by Converse.
	Speech SpeechSynthesizer
	Images ImageGenerator
}

type Receptionist struct {
	reasoner     Reasoner
	handlers     map[string]toolHandler
	speech       SpeechSynthesizer
	images       ImageGenerator
	systemPrompt string
	maxRounds    int
	logger       *zap.Logger
}

func NewReceptionist(
	reasoner Reasoner,
	rooms *RoomService,
	reservations *ReservationService,
	opts ReceptionistOptions,
	logger *zap.Logger,
) *Receptionist {
	return &Receptionist{
		reasoner:     reasoner,
		handlers:     newToolHandlers(rooms, reservations),
		speech:       opts.Speech,
		images:       opts.Images,
		systemPrompt: opts.SystemPrompt,
		maxRounds:    opts.MaxToolRounds,
		logger:       logger,
	}
}

// ConverseResult is the outcome of a rich turn. Image is nil unless a booking produced one.
type ConverseResult struct {
	Messages []models.Message
	Audio    *models.Audio
	Image    image.Image
}

// Respond runs a plain text turn over user/assistant pairs and returns the reply.
func (r *Receptionist) Respond(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	transcript := []models.Message{{Role: models.RoleSystem, Content: r.systemPrompt}}
	for _, turn := range history {
		if turn.User != "" {
			transcript = append(transcript, models.Message{Role: models.RoleUser, Content: turn.User})
		}
		if turn.Assistant != "" {
			transcript = append(transcript, models.Message{Role: models.RoleAssistant, Content: turn.Assistant})
		}
	}
	transcript = append(transcript, models.Message{Role: models.RoleUser, Content: message})

	reply, _, err := r.resolve(ctx, transcript, false)
	if err != nil {
		return "", err
	}
	return reply, nil
}

// Converse runs a rich turn over a flat role-tagged history. The returned history is the
// caller's plus the final assistant reply; audio is synthesized for that reply.
func (r *Receptionist) Converse(ctx context.Context, history []models.Message) (*ConverseResult, error) {
	transcript := make([]models.Message, 0, len(history)+1)
	transcript = append(transcript, models.Message{Role: models.RoleSystem, Content: r.systemPrompt})
	transcript = append(transcript, history...)

	reply, picture, err := r.resolve(ctx, transcript, true)
	if err != nil {
		return nil, err
	}

	updated := make([]models.Message, 0, len(history)+1)
	updated = append(updated, history...)
	updated = append(updated, models.Message{Role: models.RoleAssistant, Content: reply})

	result := &ConverseResult{Messages: updated, Image: picture}
	if r.speech != nil && strings.TrimSpace(reply) != "" {
		audio, err := r.speech.Synthesize(ctx, reply)
		if err != nil {
			return nil, &UpstreamError{Op: "speech synthesis", Err: err}
		}
		result.Audio = audio
	}
	return result, nil
}

// resolve alternates between the reasoner and tool dispatch until a reply arrives with no
// tool calls. With withImages set, each successful booking also asks for a room picture.
func (r *Receptionist) resolve(ctx context.Context, transcript []models.Message, withImages bool) (string, image.Image, error) {
	var picture image.Image

	for rounds := 0; ; rounds++ {
		reply, err := r.reasoner.Complete(ctx, transcript, ToolCatalog)
		if err != nil {
			return "", nil, &UpstreamError{Op: "reasoner request", Err: err}
		}
		if reply == nil {
			return "", nil, &UpstreamError{Op: "reasoner request", Err: errEmptyReply}
		}
		reply.Role = models.RoleAssistant
		transcript = append(transcript, *reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, picture, nil
		}
		if r.maxRounds > 0 && rounds >= r.maxRounds {
			r.logger.Warn("tool round limit reached", zap.Int("max_rounds", r.maxRounds))
			return "", nil, ErrToolRoundLimit
		}

		for _, call := range reply.ToolCalls {
			result, err := dispatchTool(ctx, r.handlers, call)
			if err != nil {
				return "", nil, fmt.Errorf("tool %s failed: %w", call.Name, err)
			}

			if booking, ok := result.(*ReservationResult); ok && withImages && r.images != nil {
				img, err := r.images.Generate(ctx, roomImagePrompt(booking.Room))
				if err != nil {
					imgErr := &ImageGenerationError{Room: booking.Room, Err: err}
					r.logger.Warn("room image generation failed", zap.String("room", booking.Room), zap.Error(err))
					booking.ImageError = imgErr.Error()
				} else {
					picture = img
				}
			}

			content, err := encodeToolResult(result)
			if err != nil {
				return "", nil, fmt.Errorf("failed to encode %s result: %w", call.Name, err)
			}

			r.logger.Debug("tool call resolved",
				zap.String("tool", call.Name),
				zap.String("call_id", call.ID),
				zap.Int("round", rounds+1),
			)

			transcript = append(transcript, models.Message{
				Role:       models.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}
}
