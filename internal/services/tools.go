package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"marina-frontdesk/internal/models"
)

const (
	ToolGetRoomDetails = "get_room_details"
	ToolCheckoutRoom   = "checkout_room"
)

// ToolCatalog is declared to the reasoner on every round.
var ToolCatalog = []models.ToolSpec{
	{
		Name: ToolGetRoomDetails,
		Description: "Provide details about available rooms and their prices. " +
			"If the guest wants information on all rooms, pass 'all' as the room_type.",
		Parameters: roomTypeSchema("Type of room the guest is interested in " +
			"(e.g. 'Deluxe Suite', 'Ocean View Room', or 'all' to list all)."),
	},
	{
		Name:        ToolCheckoutRoom,
		Description: "Reserve a specific room if available and provide the booking details.",
		Parameters:  roomTypeSchema("Name of the room to reserve (e.g. 'Deluxe Suite')."),
	},
}

func roomTypeSchema(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"room_type": map[string]any{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"room_type"},
	}
}

// ToolResult is what a dispatched call hands back to the reasoner: one of
// *RoomQueryResult, *ReservationResult or *ToolError.
type ToolResult interface {
	toolResult()
}

// RoomQueryResult serializes as a bare name -> room info object.
type RoomQueryResult struct {
	Rooms models.RoomDetails
}

func (r *RoomQueryResult) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(r.Rooms)
}

type ReservationResult struct {
	models.Confirmation
	ImageError string `json:"image_error,omitempty"`
}

// ToolError carries a domain failure back to the reasoner so it can recover in conversation.
type ToolError struct {
	Message string `json:"error"`
}

func (*RoomQueryResult) toolResult()   {}
func (*ReservationResult) toolResult() {}
func (*ToolError) toolResult()         {}

type toolArgs struct {
	RoomType string `json:"room_type"`
}

// toolHandler returns a non-nil error only for infrastructure failures; domain outcomes are
// reported through the ToolResult.
type toolHandler func(ctx context.Context, args toolArgs) (ToolResult, error)

func newToolHandlers(rooms *RoomService, reservations *ReservationService) map[string]toolHandler {
	return map[string]toolHandler{
		ToolGetRoomDetails: func(ctx context.Context, args toolArgs) (ToolResult, error) {
			details, err := rooms.GetRoomDetails(ctx, args.RoomType)
			if err != nil {
				return domainError(err)
			}
			return &RoomQueryResult{Rooms: details}, nil
		},
		ToolCheckoutRoom: func(ctx context.Context, args toolArgs) (ToolResult, error) {
			confirmation, err := reservations.CheckoutRoom(ctx, args.RoomType)
			if err != nil {
				return domainError(err)
			}
			return &ReservationResult{Confirmation: *confirmation}, nil
		},
	}
}

func domainError(err error) (ToolResult, error) {
	var notFound *NotFoundError
	var soldOut *SoldOutError
	switch {
	case errors.As(err, &notFound):
		return &ToolError{Message: notFound.Error()}, nil
	case errors.As(err, &soldOut):
		return &ToolError{Message: soldOut.Error()}, nil
	default:
		return nil, err
	}
}

// dispatchTool runs one operation request. Unknown names and unparseable arguments are
// reported to the reasoner rather than failing the turn.
func dispatchTool(ctx context.Context, handlers map[string]toolHandler, call models.ToolCall) (ToolResult, error) {
	handler, ok := handlers[call.Name]
	if !ok {
		return &ToolError{Message: (&UnknownToolError{Name: call.Name}).Error()}, nil
	}

	var args toolArgs
	if call.Arguments != "" {
		if err := sonic.UnmarshalString(call.Arguments, &args); err != nil {
			return &ToolError{Message: fmt.Sprintf("Invalid arguments for %s: %v", call.Name, err)}, nil
		}
	}

	return handler(ctx, args)
}

func encodeToolResult(result ToolResult) (string, error) {
	return sonic.MarshalString(result)
}
