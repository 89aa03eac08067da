// Package session models one interactive generation session.
package session

import (
	"fmt"
	"time"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// Phase is the lifecycle position of a session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseAwaiting Phase = "awaiting"
	PhaseReady    Phase = "ready"
	PhaseError    Phase = "error"
)

// ArtifactID identifies a rendered deck held by an ArtifactRegistry.
type ArtifactID string

// State is an immutable snapshot of a session. Transition methods return a
// new value and never modify the receiver's slices.
type State struct {
	Phase      Phase
	Messages   []model.ChatMessage
	Slides     []model.Slide
	SessionID  string
	LastPrompt string
	Artifact   ArtifactID
	// Thinking is set while a generation request is in flight. It replaces
	// the placeholder transcript entry and is never persisted.
	Thinking bool
}

// Summary is the assistant message appended after a successful generation.
func Summary(slides []model.Slide) string {
	title := "Untitled"
	if len(slides) > 0 && slides[0].Title != "" {
		title = slides[0].Title
	}
	return fmt.Sprintf("Created %d slides. Title: %s", len(slides), title)
}

// LoadedSummary is the assistant message synthesized for a stored session
// that has no transcript.
func LoadedSummary(slides []model.Slide) string {
	return fmt.Sprintf("Loaded %d slides from history", len(slides))
}

func (s State) clone() State {
	out := s
	if s.Messages != nil {
		out.Messages = make([]model.ChatMessage, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	out.Slides = model.CloneSlides(s.Slides)
	return out
}

// Submit records a prompt and enters the awaiting phase. Prior slides and
// artifact are cleared; the caller releases the old artifact.
func (s State) Submit(prompt string, now time.Time) State {
	out := s.clone()
	out.Phase = PhaseAwaiting
	out.Messages = append(out.Messages, model.NewMessage(model.RoleUser, prompt, now))
	out.Slides = nil
	out.Artifact = ""
	out.LastPrompt = prompt
	out.Thinking = true
	return out
}

// Succeed installs generated slides and their artifact.
func (s State) Succeed(slides []model.Slide, artifact ArtifactID, now time.Time) State {
	out := s.clone()
	out.Phase = PhaseReady
	out.Slides = model.CloneSlides(slides)
	out.Artifact = artifact
	out.Thinking = false
	out.Messages = append(out.Messages, model.NewMessage(model.RoleAssistant, Summary(slides), now))
	return out
}

// Fail collapses an in-flight request. No assistant message is added.
func (s State) Fail() State {
	out := s.clone()
	out.Phase = PhaseError
	out.Slides = nil
	out.Artifact = ""
	out.Thinking = false
	return out
}

// Load restores a stored session directly into the ready phase.
func (s State) Load(item model.HistoryItem, artifact ArtifactID, now time.Time) State {
	msgs := model.PersistableMessages(item.Messages)
	if len(msgs) == 0 {
		msgs = []model.ChatMessage{
			model.NewMessage(model.RoleUser, item.Prompt, now),
			model.NewMessage(model.RoleAssistant, LoadedSummary(item.Slides), now),
		}
	}
	return State{
		Phase:      PhaseReady,
		Messages:   msgs,
		Slides:     model.CloneSlides(item.Slides),
		SessionID:  item.ID,
		LastPrompt: item.Prompt,
		Artifact:   artifact,
	}.clone()
}

// WithSession records the id assigned by the history store.
func (s State) WithSession(id string) State {
	out := s.clone()
	out.SessionID = id
	return out
}

// WithSlides replaces the slides and artifact after an edit.
func (s State) WithSlides(slides []model.Slide, artifact ArtifactID) State {
	out := s.clone()
	out.Slides = model.CloneSlides(slides)
	out.Artifact = artifact
	return out
}
