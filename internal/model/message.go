package model

import (
	"time"
)

// Role represents the role of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role may be persisted.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatMessage is one entry of a session transcript.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// timestampLayout is RFC 3339 with a fixed-width fraction so that lexical
// order equals chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t the way every persisted timestamp is written.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewMessage builds a transcript entry stamped with now.
func NewMessage(role Role, content string, now time.Time) ChatMessage {
	return ChatMessage{Role: role, Content: content, CreatedAt: Timestamp(now)}
}

// PersistableMessages drops any entry whose role cannot be stored, such as the
// "thinking" placeholder older clients wrote into the transcript.
func PersistableMessages(msgs []ChatMessage) []ChatMessage {
	if msgs == nil {
		return nil
	}
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role.Valid() {
			out = append(out, m)
		}
	}
	return out
}
