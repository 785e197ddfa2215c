package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/services"
)

type guestAssistant interface {
	Respond(ctx context.Context, message string, history []models.ChatTurn) (string, error)
	Converse(ctx context.Context, history []models.Message) (*services.ConverseResult, error)
}

type ChatHandler struct {
	assistant guestAssistant
	logger    *zap.Logger
}

func NewChatHandler(assistant guestAssistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Chat handles a plain text turn: one message plus prior user/assistant pairs.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	reply, err := h.assistant.Respond(r.Context(), req.Message, req.History)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// Converse handles a rich turn over a role-tagged history and returns the updated history,
// the spoken reply and, after a booking, a picture of the room.
func (h *ChatHandler) Converse(w http.ResponseWriter, r *http.Request) {
	var req models.ConverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := validateHistory(req.Messages); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.assistant.Converse(r.Context(), req.Messages)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	resp := models.ConverseResponse{
		Messages: result.Messages,
		Audio:    result.Audio,
	}
	if result.Image != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, result.Image); err != nil {
			h.logger.Warn("failed to encode room image", zap.Error(err))
		} else {
			resp.Image = &models.EncodedImage{MIMEType: "image/png", Data: buf.Bytes()}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Clients may only send guest and assistant turns, and the newest one must be the guest's.
func validateHistory(messages []models.Message) error {
	if len(messages) == 0 {
		return &services.ValidationError{Fields: map[string]string{"messages": "at least one message is required"}}
	}

	for _, msg := range messages {
		if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
			return &services.ValidationError{Fields: map[string]string{"messages": "role must be user or assistant"}}
		}
		if len(msg.ToolCalls) > 0 || msg.ToolCallID != "" {
			return &services.ValidationError{Fields: map[string]string{"messages": "tool messages are not accepted"}}
		}
	}

	last := messages[len(messages)-1]
	if last.Role != models.RoleUser || strings.TrimSpace(last.Content) == "" {
		return &services.ValidationError{Fields: map[string]string{"messages": "last message must be a non-empty user message"}}
	}
	return nil
}
