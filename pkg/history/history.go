package history

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/avatarshuffle/pkg/storage"
)

// Defaults for [Store].
const (
	DefaultKey   = "promptHistory"
	DefaultLimit = 20
)

// Store keeps recently used prompts, most recent first, in a storage.Store.
type Store struct {
	store storage.Store
	key   string
	limit int
	mu    sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLimit sets the number of prompts kept. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a history backed by store.
func New(store storage.Store, opts ...Option) *Store {
	s := &Store{store: store, key: DefaultKey, limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the stored prompts, most recent first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var prompts []string
	if _, err := storage.GetJSON(ctx, s.store, s.key, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// Add records prompt as the most recent entry. An existing equal entry
// (ignoring surrounding space) moves to the front. Blank prompts are
// ignored.
func (s *Store) Add(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, err := s.List(ctx)
	if err != nil {
		return err
	}
	next := make([]string, 0, min(len(prompts)+1, s.limit))
	next = append(next, prompt)
	for _, p := range prompts {
		if len(next) == s.limit {
			break
		}
		if p != prompt {
			next = append(next, p)
		}
	}
	return storage.SetJSON(ctx, s.store, s.key, next, 0)
}

// Clear removes all prompts.
func (s *Store) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}
