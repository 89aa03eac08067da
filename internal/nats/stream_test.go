package nats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

func TestEventSubject(t *testing.T) {
	require.Equal(t, "history.created.abc", EventSubject("abc", model.EventTypeHistoryCreated))
	require.Equal(t, "history.updated.abc", EventSubject("abc", model.EventTypeHistoryUpdated))
}
