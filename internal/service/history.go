package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/repository"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
	"github.com/capitalize-ai/ai-slides/pkg/metrics"
	"github.com/capitalize-ai/ai-slides/pkg/tracing"
)

// EventPublisher publishes history events.
type EventPublisher interface {
	PublishHistoryEvent(ctx context.Context, event *model.HistoryEvent) (uint64, error)
}

// HistoryService handles history operations.
type HistoryService struct {
	repo   repository.Repository
	events EventPublisher
	logger *logger.Logger
}

// NewHistoryService creates a history service. events may be nil.
func NewHistoryService(repo repository.Repository, events EventPublisher, log *logger.Logger) *HistoryService {
	return &HistoryService{repo: repo, events: events, logger: log}
}

// List returns every stored session, newest first.
func (s *HistoryService) List(ctx context.Context) ([]model.HistoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list history", zap.String("backend", s.repo.Name()), zap.Error(err))
		return nil, newError(ErrorInternal, "Failed to load history", err)
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	return items, nil
}

// Save creates or updates a session.
func (s *HistoryService) Save(ctx context.Context, req model.SaveHistoryRequest) (*model.SaveHistoryResponse, error) {
	params := repository.UpsertParams{
		SessionID: strings.TrimSpace(req.SessionID),
		Prompt:    req.Prompt,
		Slides:    req.Slides,
		Messages:  req.Messages,
	}
	if params.Empty() {
		return nil, newError(ErrorValidation, "Invalid payload", nil)
	}

	op := "create"
	eventType := model.EventTypeHistoryCreated
	if params.SessionID != "" {
		op = "update"
		eventType = model.EventTypeHistoryUpdated
	}

	ctx, span := tracing.Tracer("service").Start(ctx, "history."+op)
	defer span.End()

	item, err := s.repo.Upsert(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordHistoryWrite(s.repo.Name(), op, "not_found")
			return nil, newError(ErrorNotFound, "Session not found", err)
		}
		metrics.RecordHistoryWrite(s.repo.Name(), op, "error")
		span.RecordError(err)
		s.logger.Error("failed to save history",
			zap.String("backend", s.repo.Name()),
			zap.String("session_id", params.SessionID),
			zap.Error(err),
		)
		return nil, newError(ErrorInternal, "Failed to save history", err)
	}
	metrics.RecordHistoryWrite(s.repo.Name(), op, "success")

	s.publish(ctx, &model.HistoryEvent{
		ID:         uuid.NewString(),
		SessionID:  item.ID,
		Type:       eventType,
		SlideCount: len(item.Slides),
		CreatedAt:  time.Now().UTC(),
	})

	return &model.SaveHistoryResponse{Item: item, SessionID: item.ID}, nil
}

// Ping checks the backend.
func (s *HistoryService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Backend names the history backend.
func (s *HistoryService) Backend() string {
	return s.repo.Name()
}

// publish never fails the write that triggered it.
func (s *HistoryService) publish(ctx context.Context, event *model.HistoryEvent) {
	if s.events == nil {
		return
	}
	seq, err := s.events.PublishHistoryEvent(ctx, event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		s.logger.Warn("failed to publish history event",
			zap.String("session_id", event.SessionID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}
	event.Sequence = seq
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "success").Inc()
}
