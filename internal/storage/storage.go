// Package storage stores uploaded presentation files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
	"github.com/capitalize-ai/ai-slides/pkg/metrics"
)

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrEmpty is returned for a zero-byte upload.
	ErrEmpty = errors.New("file is empty")
)

// Store writes a named object and returns its public URL.
type Store interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Health(ctx context.Context) error
	Name() string
}

// Uploader names, sniffs and stores uploaded files.
type Uploader struct {
	store    Store
	maxBytes int64
	logger   *logger.Logger
}

// NewUploader creates an uploader. maxBytes <= 0 disables the limit.
func NewUploader(store Store, maxBytes int64, log *logger.Logger) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes, logger: log}
}

// MaxBytes returns the configured size limit.
func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Upload stores body under a fresh <uuid>.pptx name.
func (u *Uploader) Upload(ctx context.Context, body io.Reader) (*model.UploadResponse, error) {
	r := body
	if u.maxBytes > 0 {
		r = io.LimitReader(body, u.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	mime := mimetype.Detect(data)
	name := uuid.NewString() + ".pptx"

	url, err := u.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), mime.String())
	if err != nil {
		u.logger.Error("failed to store upload", zap.String("backend", u.store.Name()), zap.Error(err))
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	metrics.UploadBytes.Observe(float64(len(data)))

	u.logger.Info("presentation uploaded",
		zap.String("name", name),
		zap.String("mime", mime.String()),
		zap.Int("bytes", len(data)),
	)
	return &model.UploadResponse{URL: url, Mime: mime.String()}, nil
}

// Health checks the backing store.
func (u *Uploader) Health(ctx context.Context) error {
	return u.store.Health(ctx)
}
