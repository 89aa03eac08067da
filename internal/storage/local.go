package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files under a directory that the API server also serves.
type LocalStore struct {
	dir     string
	urlPath string
}

// NewLocalStore creates the directory if needed. urlPath is the public prefix
// the directory is served under, such as /temp_pptx.
func NewLocalStore(dir, urlPath string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, urlPath: "/" + strings.Trim(urlPath, "/")}, nil
}

// Name returns the backend name.
func (l *LocalStore) Name() string { return "local" }

// Dir returns the directory files are written to.
func (l *LocalStore) Dir() string { return l.dir }

// URLPath returns the public prefix.
func (l *LocalStore) URLPath() string { return l.urlPath }

// Put writes the file and returns its public path.
func (l *LocalStore) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path.Join(l.urlPath, name), nil
}

// Health checks the directory is present.
func (l *LocalStore) Health(context.Context) error {
	info, err := os.Stat(l.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.dir)
	}
	return nil
}
