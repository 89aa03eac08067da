package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// ErrEmptyDeck is returned when generation succeeds with no slides.
var ErrEmptyDeck = errors.New("generation returned no slides")

// Generator produces slides for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]model.Slide, error)
}

// HistoryStore persists sessions.
type HistoryStore interface {
	Save(ctx context.Context, req model.SaveHistoryRequest) (*model.SaveHistoryResponse, error)
}

// Controller drives a session through generation, rendering and
// persistence. Transitions are applied under a lock but external calls run
// outside it, so a slow response may land after a newer one.
type Controller struct {
	gen      Generator
	history  HistoryStore
	renderer deck.Renderer
	registry ArtifactRegistry
	logger   *logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	state  State
	closed bool
}

// NewController creates a controller in the idle phase.
func NewController(gen Generator, history HistoryStore, renderer deck.Renderer, registry ArtifactRegistry, log *logger.Logger) *Controller {
	return &Controller{
		gen:      gen,
		history:  history,
		renderer: renderer,
		registry: registry,
		logger:   log,
		now:      time.Now,
		state:    State{Phase: PhaseIdle},
	}
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Artifact returns the bytes of the current rendered deck.
func (c *Controller) Artifact() ([]byte, bool) {
	c.mu.Lock()
	id := c.state.Artifact
	c.mu.Unlock()
	if id == "" {
		return nil, false
	}
	return c.registry.Get(id)
}

// Submit sends a prompt through the generation flow. The returned error
// explains an error phase; a failed history save is logged and does not
// affect the returned state.
func (c *Controller) Submit(ctx context.Context, prompt string) (State, error) {
	c.transition(func(s State) State { return s.Submit(prompt, c.now()) })

	slides, err := c.gen.Generate(ctx, prompt)
	if err == nil && len(slides) == 0 {
		err = ErrEmptyDeck
	}
	if err != nil {
		c.logger.Warn("generation failed", zap.Error(err))
		return c.transition(func(s State) State { return s.Fail() }), err
	}

	data, err := c.renderer.Render("", slides, nil)
	if err != nil {
		c.logger.Error("failed to render deck", zap.Error(err))
		return c.transition(func(s State) State { return s.Fail() }), fmt.Errorf("render deck: %w", err)
	}
	id := c.registry.Put(data)
	state := c.transition(func(s State) State { return s.Succeed(slides, id, c.now()) })

	resp, err := c.history.Save(ctx, model.SaveHistoryRequest{
		SessionID: state.SessionID,
		Prompt:    prompt,
		Slides:    state.Slides,
		Messages:  state.Messages,
	})
	if err != nil {
		c.logger.Warn("failed to save history", zap.String("session_id", state.SessionID), zap.Error(err))
		return state, nil
	}
	if state.SessionID == "" {
		state = c.transition(func(s State) State { return s.WithSession(resp.SessionID) })
	}
	return state, nil
}

// Load restores a stored session and renders its slides.
func (c *Controller) Load(item model.HistoryItem) (State, error) {
	var id ArtifactID
	var renderErr error
	if len(item.Slides) > 0 {
		data, err := c.renderer.Render("", item.Slides, nil)
		if err != nil {
			c.logger.Error("failed to render stored deck", zap.String("session_id", item.ID), zap.Error(err))
			renderErr = fmt.Errorf("render deck: %w", err)
		} else {
			id = c.registry.Put(data)
		}
	}
	return c.transition(func(s State) State { return s.Load(item, id, c.now()) }), renderErr
}

// UpdateSlides re-renders the artifact after an edit. Styles stay in the
// editor and are not part of this artifact.
func (c *Controller) UpdateSlides(slides []model.Slide) (State, error) {
	if len(slides) == 0 {
		return c.State(), deck.ErrNoSlides
	}
	data, err := c.renderer.Render("", slides, nil)
	if err != nil {
		return c.State(), fmt.Errorf("render deck: %w", err)
	}
	id := c.registry.Put(data)
	return c.transition(func(s State) State { return s.WithSlides(slides, id) }), nil
}

// Close releases the current artifact. Calls still in flight may finish,
// but any deck they render is released as soon as it lands.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.registry.Release(c.state.Artifact)
	c.state.Artifact = ""
}

// transition applies fn and releases any artifact the new state no longer
// references. After Close the new state holds no artifact.
func (c *Controller) transition(fn func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state.Artifact
	c.state = fn(c.state)
	if prev != "" && prev != c.state.Artifact {
		c.registry.Release(prev)
	}
	if c.closed && c.state.Artifact != "" {
		c.registry.Release(c.state.Artifact)
		c.state.Artifact = ""
	}
	return c.state.clone()
}
