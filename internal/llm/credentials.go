package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoCredential is returned when no source holds an API key.
var ErrNoCredential = errors.New("API key not configured")

// CredentialSource yields the provider API key. It is consulted on every
// generation request so a missing key surfaces at request time.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticCredential is a key taken from configuration.
type StaticCredential string

// APIKey returns the key or ErrNoCredential when it is empty.
func (s StaticCredential) APIKey(context.Context) (string, error) {
	key := strings.TrimSpace(string(s))
	if key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

// ParamGetter reads a named parameter from a secret store.
type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ParameterCredential reads the key from a parameter store. A successful
// lookup is cached for the life of the process; failures are retried on the
// next request.
type ParameterCredential struct {
	getter ParamGetter
	name   string

	mu  sync.Mutex
	key string
}

// NewParameterCredential creates a credential source for the named parameter.
func NewParameterCredential(getter ParamGetter, name string) *ParameterCredential {
	return &ParameterCredential{getter: getter, name: name}
}

// APIKey returns the cached key or fetches it.
func (p *ParameterCredential) APIKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key != "" {
		return p.key, nil
	}
	raw, err := p.getter.GetParameter(ctx, p.name)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", ErrNoCredential
	}
	p.key = key
	return key, nil
}

// ChainCredential returns the first key any source yields.
type ChainCredential []CredentialSource

// APIKey walks the chain in order.
func (c ChainCredential) APIKey(ctx context.Context) (string, error) {
	var lastErr error = ErrNoCredential
	for _, src := range c {
		key, err := src.APIKey(ctx)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrNoCredential) {
			lastErr = err
		}
	}
	return "", lastErr
}
