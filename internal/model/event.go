package model

import (
	"time"
)

// EventType represents the type of history event.
type EventType string

const (
	EventTypeHistoryCreated EventType = "history.created"
	EventTypeHistoryUpdated EventType = "history.updated"
)

// HistoryEvent is published after a successful history write.
type HistoryEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Type       EventType `json:"type"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
	Sequence   uint64    `json:"sequence,omitempty"`
}
