package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

var errKeyNotFound = errors.New("key not found")

// kvStore is the slice of a JetStream key-value bucket the repository uses.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, uint64, error)
	Create(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, value []byte, revision uint64) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// KVRepository stores one key per session in a JetStream key-value bucket.
// Updates are compare-and-set on the entry revision.
type KVRepository struct {
	kv  kvStore
	now func() time.Time
}

// NewKVRepository wraps a JetStream key-value bucket.
func NewKVRepository(kv jetstream.KeyValue) *KVRepository {
	return newKVRepository(jetstreamKV{kv: kv})
}

func newKVRepository(kv kvStore) *KVRepository {
	return &KVRepository{kv: kv, now: time.Now}
}

// Name returns the backend name.
func (r *KVRepository) Name() string { return "nats" }

// Ping checks the bucket status.
func (r *KVRepository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

// List reads every key in the bucket.
func (r *KVRepository) List(ctx context.Context) ([]model.HistoryItem, error) {
	keys, err := r.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: list keys: %w", err)
	}
	items := make([]model.HistoryItem, 0, len(keys))
	for _, key := range keys {
		data, _, err := r.kv.Get(ctx, key)
		if errors.Is(err, errKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("repository: get %s: %w", key, err)
		}
		var item model.HistoryItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("repository: decode %s: %w", key, err)
		}
		item.Normalize()
		items = append(items, item)
	}
	sortNewestFirst(items)
	return items, nil
}

// Upsert creates or updates an item.
func (r *KVRepository) Upsert(ctx context.Context, p UpsertParams) (model.HistoryItem, error) {
	if p.SessionID == "" {
		item := newItem(p, r.now())
		data, err := json.Marshal(item)
		if err != nil {
			return model.HistoryItem{}, fmt.Errorf("repository: encode item: %w", err)
		}
		if err := r.kv.Create(ctx, item.ID, data); err != nil {
			return model.HistoryItem{}, fmt.Errorf("repository: create %s: %w", item.ID, err)
		}
		return item, nil
	}

	data, revision, err := r.kv.Get(ctx, p.SessionID)
	if errors.Is(err, errKeyNotFound) {
		return model.HistoryItem{}, ErrNotFound
	}
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: get %s: %w", p.SessionID, err)
	}
	var item model.HistoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: decode %s: %w", p.SessionID, err)
	}
	apply(&item, p)

	data, err = json.Marshal(item)
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: encode item: %w", err)
	}
	if err := r.kv.Update(ctx, item.ID, data, revision); err != nil {
		return model.HistoryItem{}, fmt.Errorf("repository: update %s: %w", item.ID, err)
	}
	return item, nil
}

// jetstreamKV adapts jetstream.KeyValue to kvStore.
type jetstreamKV struct {
	kv jetstream.KeyValue
}

// Get reports a key that cannot exist in a bucket, such as one holding
// wildcards, as missing.
func (j jetstreamKV) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	entry, err := j.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) || errors.Is(err, jetstream.ErrInvalidKey) {
		return nil, 0, errKeyNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return entry.Value(), entry.Revision(), nil
}

func (j jetstreamKV) Create(ctx context.Context, key string, value []byte) error {
	_, err := j.kv.Create(ctx, key, value)
	return err
}

func (j jetstreamKV) Update(ctx context.Context, key string, value []byte, revision uint64) error {
	_, err := j.kv.Update(ctx, key, value, revision)
	return err
}

func (j jetstreamKV) Keys(ctx context.Context) ([]string, error) {
	keys, err := j.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil, nil
	}
	return keys, err
}

func (j jetstreamKV) Ping(ctx context.Context) error {
	_, err := j.kv.Status(ctx)
	return err
}
