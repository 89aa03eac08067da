package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// FileRepository keeps every item in one JSON array document. Each write
// rewrites the whole file. The mutex serializes read-modify-write inside this
// process only; separate processes sharing the file still race.
type FileRepository struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewFileRepository creates a file backed repository. The file and its
// directory are created on first access.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path, now: time.Now}
}

// Name returns the backend name.
func (r *FileRepository) Name() string { return "file" }

// Ping ensures the store exists.
func (r *FileRepository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureStore()
}

// List returns all items newest first.
func (r *FileRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	r.mu.Lock()
	items, err := r.readAll()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

// Upsert creates or updates an item.
func (r *FileRepository) Upsert(ctx context.Context, p UpsertParams) (model.HistoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.readAll()
	if err != nil {
		return model.HistoryItem{}, err
	}

	if p.SessionID == "" {
		item := newItem(p, r.now())
		items = append(items, item)
		if err := r.writeAll(items); err != nil {
			return model.HistoryItem{}, err
		}
		return item.Clone(), nil
	}

	for i := range items {
		if items[i].ID != p.SessionID {
			continue
		}
		apply(&items[i], p)
		if err := r.writeAll(items); err != nil {
			return model.HistoryItem{}, err
		}
		return items[i].Clone(), nil
	}
	return model.HistoryItem{}, ErrNotFound
}

func (r *FileRepository) ensureStore() error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat history file: %w", err)
	}
	if err := os.WriteFile(r.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	return nil
}

// readAll loads the document. Content that is not a JSON array reads as an
// empty history.
func (r *FileRepository) readAll() ([]model.HistoryItem, error) {
	if err := r.ensureStore(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var items []model.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return []model.HistoryItem{}, nil
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *FileRepository) writeAll(items []model.HistoryItem) error {
	if err := r.ensureStore(); err != nil {
		return err
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, so readers see either the old or the new document.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync history file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set history file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
