package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSummary(t *testing.T) {
	require.Equal(t, "Created 2 slides. Title: Intro", Summary([]model.Slide{{Title: "Intro"}, {Title: "B"}}))
	require.Equal(t, "Created 1 slides. Title: Untitled", Summary([]model.Slide{{}}))
	require.Equal(t, "Loaded 3 slides from history", LoadedSummary(make([]model.Slide, 3)))
}

func TestState_SubmitSucceed(t *testing.T) {
	s := State{Phase: PhaseIdle}
	awaiting := s.Submit("topic", t0)

	require.Equal(t, PhaseIdle, s.Phase)
	require.Empty(t, s.Messages)

	require.Equal(t, PhaseAwaiting, awaiting.Phase)
	require.True(t, awaiting.Thinking)
	require.Len(t, awaiting.Messages, 1)
	require.Equal(t, model.RoleUser, awaiting.Messages[0].Role)
	require.Equal(t, "topic", awaiting.LastPrompt)

	slides := []model.Slide{{Title: "Intro", Content: []string{"a"}}}
	ready := awaiting.Succeed(slides, "artifact-1", t0)
	require.Equal(t, PhaseReady, ready.Phase)
	require.False(t, ready.Thinking)
	require.Equal(t, ArtifactID("artifact-1"), ready.Artifact)
	require.Len(t, ready.Messages, 2)
	require.Equal(t, "Created 1 slides. Title: Intro", ready.Messages[1].Content)

	slides[0].Title = "mutated"
	require.Equal(t, "Intro", ready.Slides[0].Title)
}

func TestState_SubmitClearsPreviousDeck(t *testing.T) {
	ready := State{}.Submit("one", t0).Succeed([]model.Slide{{Title: "A"}}, "artifact-1", t0)
	next := ready.Submit("two", t0)
	require.Nil(t, next.Slides)
	require.Empty(t, next.Artifact)
	require.Len(t, next.Messages, 3)
	require.Len(t, ready.Messages, 2)
}

func TestState_Fail(t *testing.T) {
	failed := State{}.Submit("topic", t0).Fail()
	require.Equal(t, PhaseError, failed.Phase)
	require.Nil(t, failed.Slides)
	require.Empty(t, failed.Artifact)
	require.False(t, failed.Thinking)
	require.Len(t, failed.Messages, 1)
	require.Equal(t, model.RoleUser, failed.Messages[0].Role)
}

func TestState_LoadSynthesizesTranscript(t *testing.T) {
	item := model.HistoryItem{
		ID:     "abc",
		Prompt: "topic",
		Slides: []model.Slide{{Title: "A"}, {Title: "B"}},
	}
	loaded := State{}.Submit("other", t0).Load(item, "artifact-9", t0)
	require.Equal(t, PhaseReady, loaded.Phase)
	require.Equal(t, "abc", loaded.SessionID)
	require.False(t, loaded.Thinking)
	require.Len(t, loaded.Messages, 2)
	require.Equal(t, "topic", loaded.Messages[0].Content)
	require.Equal(t, "Loaded 2 slides from history", loaded.Messages[1].Content)
	require.Equal(t, ArtifactID("artifact-9"), loaded.Artifact)
}

func TestState_LoadKeepsStoredTranscript(t *testing.T) {
	msgs := []model.ChatMessage{
		model.NewMessage(model.RoleUser, "topic", t0),
		{Role: "thinking", Content: "Thinking…"},
		model.NewMessage(model.RoleAssistant, "Created 1 slides. Title: A", t0),
	}
	loaded := State{}.Load(model.HistoryItem{ID: "abc", Messages: msgs, Slides: []model.Slide{{Title: "A"}}}, "", t0)
	require.Len(t, loaded.Messages, 2)
	require.Equal(t, model.RoleAssistant, loaded.Messages[1].Role)
}
