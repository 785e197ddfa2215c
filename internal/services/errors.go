package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolRoundLimit is returned when the reasoner keeps requesting tools past the configured cap.
var ErrToolRoundLimit = errors.New("tool call round limit exceeded")

var errEmptyReply = errors.New("reasoner returned no message")

// UpstreamError wraps a failure of a model provider (reasoning or speech).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + " failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// NotFoundError means a room name or filter matched nothing.
type NotFoundError struct {
	Query      string
	ValidNames []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Room type '%s' not found. Try one of: %s.", e.Query, strings.Join(e.ValidNames, ", "))
}

// SoldOutError means the room exists but has no units left.
type SoldOutError struct {
	Room string
}

func (e *SoldOutError) Error() string {
	return fmt.Sprintf("'%s' is fully booked at the moment. Would you like to choose a different room type?", e.Room)
}

type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string { return "Unknown tool: " + e.Name }

// ImageGenerationError is attached to a successful reservation result, never returned by Converse.
type ImageGenerationError struct {
	Room string
	Err  error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("could not generate an image for %s: %v", e.Room, e.Err)
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }
