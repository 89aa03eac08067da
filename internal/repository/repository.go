// Package repository persists history items.
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// ErrNotFound is returned when an upsert names an unknown session.
var ErrNotFound = errors.New("session not found")

// UpsertParams carries the fields of a history write. A nil slice means the
// field was not provided and is left untouched on update.
type UpsertParams struct {
	SessionID string
	Prompt    string
	Slides    []model.Slide
	Messages  []model.ChatMessage
}

// Empty reports whether the params carry nothing worth writing.
func (p UpsertParams) Empty() bool {
	return p.Slides == nil && p.Messages == nil && p.Prompt == ""
}

// Repository is the history store.
type Repository interface {
	// List returns every item, newest first.
	List(ctx context.Context) ([]model.HistoryItem, error)

	// Upsert creates an item when SessionID is empty, otherwise updates the
	// named item. It returns ErrNotFound for an unknown session and performs
	// no write in that case.
	Upsert(ctx context.Context, p UpsertParams) (model.HistoryItem, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// newItem builds a fresh item from params.
func newItem(p UpsertParams, now time.Time) model.HistoryItem {
	item := model.HistoryItem{
		ID:        uuid.NewString(),
		Prompt:    p.Prompt,
		Slides:    model.CloneSlides(p.Slides),
		Messages:  model.PersistableMessages(p.Messages),
		CreatedAt: model.Timestamp(now),
	}
	item.Normalize()
	return item
}

// apply replaces the provided fields of item. Prompt is fixed at creation.
func apply(item *model.HistoryItem, p UpsertParams) {
	if p.Slides != nil {
		item.Slides = model.CloneSlides(p.Slides)
	}
	if p.Messages != nil {
		item.Messages = model.PersistableMessages(p.Messages)
	}
	item.Normalize()
}

// sortNewestFirst orders items by createdAt descending. Timestamps share one
// fixed-width layout, so string order is time order.
func sortNewestFirst(items []model.HistoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}
