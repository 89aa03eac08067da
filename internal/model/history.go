package model

// HistoryItem is one persisted session.
type HistoryItem struct {
	ID        string        `json:"id"`
	Prompt    string        `json:"prompt,omitempty"`
	Slides    []Slide       `json:"slides"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt string        `json:"createdAt"`
}

// Clone returns a deep copy of the item.
func (h HistoryItem) Clone() HistoryItem {
	out := h
	out.Slides = CloneSlides(h.Slides)
	if h.Messages != nil {
		out.Messages = make([]ChatMessage, len(h.Messages))
		copy(out.Messages, h.Messages)
	}
	return out
}

// Normalize fills nil collections and drops non-persistable transcript entries.
func (h *HistoryItem) Normalize() {
	if h.Slides == nil {
		h.Slides = []Slide{}
	}
	h.Messages = PersistableMessages(h.Messages)
	if h.Messages == nil {
		h.Messages = []ChatMessage{}
	}
}
