package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Store wraps a Repository with the process-wide writer lock. Every
// read-modify-write of a collection must go through Update or WithLock.
type Store struct {
	repo   Repository
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a Store over repo.
func New(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

func (s *Store) Logger() *zap.Logger { return s.logger }

// WithLock runs fn while holding the writer lock. Use it for operations that
// touch more than one collection; fn must call Load/Save, not Update.
func (s *Store) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Raw returns the stored bytes for key, or nil if nothing was written.
func (s *Store) Raw(ctx context.Context, key string) ([]byte, error) {
	b, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	return b, err
}

// Put replaces the stored bytes for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.repo.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// PutAll replaces every given key as a unit.
func (s *Store) PutAll(ctx context.Context, values map[string][]byte) error {
	return s.repo.PutAll(ctx, values)
}

// Clear removes every known collection.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, Keys...)
}

// Inventory lists stored collections with their last write time.
func (s *Store) Inventory(ctx context.Context) ([]KeyInfo, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	if items == nil {
		items = []KeyInfo{}
	}
	return items, nil
}

func (s *Store) Close() error { return s.repo.Close() }

// warner is implemented by entities whose decoder repairs legacy data.
type warner interface {
	DecodeWarnings() []string
}

// Collection is a typed view of one array-valued key.
type Collection[T any] struct {
	store *Store
	key   string
}

// NewCollection binds key to element type T.
func NewCollection[T any](s *Store, key string) *Collection[T] {
	return &Collection[T]{store: s, key: key}
}

func (c *Collection[T]) Key() string { return c.key }

// Load decodes the stored snapshot. A missing key is an empty collection.
// Malformed data never fails the load: a non-array value yields an empty
// slice and undecodable elements are skipped, each logged as a warning.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.repo.Get(ctx, c.key)
	if errors.Is(err, ErrMiss) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.key, err)
	}
	return c.decode(raw), nil
}

func (c *Collection[T]) decode(raw []byte) []T {
	log := c.store.logger.With(zap.String("key", c.key))

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		log.Warn("malformed collection, treating as empty", zap.Error(err))
		return []T{}
	}

	out := make([]T, 0, len(elems))
	for i, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			log.Warn("skipping malformed element", zap.Int("index", i), zap.Error(err))
			continue
		}
		if w, ok := any(v).(warner); ok {
			for _, msg := range w.DecodeWarnings() {
				log.Warn("repaired malformed data", zap.Int("index", i), zap.String("reason", msg))
			}
		}
		out = append(out, v)
	}
	return out
}

// Save replaces the stored snapshot with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.store.repo.Put(ctx, c.key, b); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}

// Update loads the collection, applies fn and saves the result, all under
// the writer lock. Nothing is written if fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	return c.store.WithLock(func() error {
		items, err := c.Load(ctx)
		if err != nil {
			return err
		}
		next, err := fn(items)
		if err != nil {
			return err
		}
		return c.Save(ctx, next)
	})
}
