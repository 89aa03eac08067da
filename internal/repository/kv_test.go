package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

// stubBucket answers Get with a fixed error; other methods are not used.
type stubBucket struct {
	jetstream.KeyValue
	err error
}

func (s stubBucket) Get(context.Context, string) (jetstream.KeyValueEntry, error) {
	return nil, s.err
}

func TestJetstreamKV_MissingKeys(t *testing.T) {
	for _, err := range []error{jetstream.ErrKeyNotFound, jetstream.ErrKeyDeleted, jetstream.ErrInvalidKey} {
		_, _, got := jetstreamKV{kv: stubBucket{err: err}}.Get(context.Background(), "a*b")
		require.ErrorIs(t, got, errKeyNotFound, "err=%v", err)
	}

	boom := errors.New("connection closed")
	_, _, got := jetstreamKV{kv: stubBucket{err: boom}}.Get(context.Background(), "abc")
	require.ErrorIs(t, got, boom)
}

func TestKVRepository_WildcardSessionIsNotFound(t *testing.T) {
	repo := newKVRepository(jetstreamKV{kv: stubBucket{err: jetstream.ErrInvalidKey}})
	_, err := repo.Upsert(context.Background(), UpsertParams{SessionID: "session.>", Prompt: "p"})
	require.ErrorIs(t, err, ErrNotFound)
}
