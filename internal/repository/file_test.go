package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileRepository_CreatesStoreLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	repo := NewFileRepository(path)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestFileRepository_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewFileRepository(path)
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestFileRepository_WritesIndentedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileRepository(path)
	repo.now = newTestClock().Now

	_, err := repo.Upsert(context.Background(), UpsertParams{Prompt: "p", Slides: sampleSlides()})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "[\n  {"))
	require.Contains(t, string(raw), `"createdAt": "2025-06-01T12:00:01.000Z"`)
}

func TestFileRepository_ReplacesDocumentWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(filepath.Join(dir, "history.json"))

	for i := 0; i < 3; i++ {
		_, err := repo.Upsert(context.Background(), UpsertParams{Prompt: "p", Slides: sampleSlides()})
		require.NoError(t, err)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "history.json", entries[0].Name())

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestFileRepository_FailedReplaceCleansTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := writeFileAtomic(path, []byte("[]"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())
}

func TestFileRepository_ReadsLegacyPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	doc := `[{"id":"abc","prompt":"p","slides":[{"title":"T","content":["a"]}],
	"messages":[{"role":"user","content":"p","createdAt":"2025-01-01T00:00:00.000Z"},
	{"role":"thinking","content":"","createdAt":"2025-01-01T00:00:00.000Z"}],
	"createdAt":"2025-01-01T00:00:00.000Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	repo := NewFileRepository(path)
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Messages, 1)
	require.Equal(t, "p", items[0].Messages[0].Content)
}

func TestFileRepository_ConcurrentCreates(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "history.json"))
	ctx := context.Background()

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := repo.Upsert(ctx, UpsertParams{Prompt: "p"})
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 10)
}
