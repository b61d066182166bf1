package memory

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/billflow/billflow/internal/errors"
)

// paginator is the subset of the filter types the generic store needs.
type paginator interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
}

// InMemoryStore is a process-local, mutex-guarded record store keyed by id.
// It is the storage engine behind every repository: one instance per entity,
// created at startup and owned by the repository that wraps it. Callers get
// and put copies; the stored values are never shared.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new empty store.
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{items: make(map[string]T)}
}

// Create inserts an item under id. Inserting an existing id fails.
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	if id == "" {
		return ierr.NewError("id cannot be empty").
			WithHint("Record id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("item with id %s already exists", id).
			WithHint("A record with this id already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[id] = item
	return nil
}

// Get fetches the item stored under id.
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		var zero T
		return zero, ierr.NewErrorf("item with id %s not found", id).
			WithHint("Record not found").
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

// List returns items accepted by filterFn, ordered by sortFn, paginated by
// the filter. A nil filterFn accepts everything; a nil sortFn leaves map
// order, which callers should not rely on.
func (s *InMemoryStore[T]) List(
	ctx context.Context,
	filter interface{},
	filterFn func(ctx context.Context, item T, filter interface{}) bool,
	sortFn func(i, j T) bool,
) ([]T, error) {
	s.mu.RLock()
	matched := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			matched = append(matched, item)
		}
	}
	s.mu.RUnlock()

	if sortFn != nil {
		sort.Slice(matched, func(i, j int) bool { return sortFn(matched[i], matched[j]) })
	}

	if p, ok := filter.(paginator); ok && p != nil && !p.IsUnlimited() {
		offset := p.GetOffset()
		if offset >= len(matched) {
			return []T{}, nil
		}
		end := offset + p.GetLimit()
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, nil
}

// Count returns the number of items accepted by filterFn, ignoring
// pagination.
func (s *InMemoryStore[T]) Count(
	ctx context.Context,
	filter interface{},
	filterFn func(ctx context.Context, item T, filter interface{}) bool,
) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			count++
		}
	}
	return count, nil
}

// Update replaces the item stored under id.
func (s *InMemoryStore[T]) Update(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewErrorf("item with id %s not found", id).
			WithHint("Record not found").
			Mark(ierr.ErrNotFound)
	}
	s.items[id] = item
	return nil
}

// Delete removes the item stored under id.
func (s *InMemoryStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewErrorf("item with id %s not found", id).
			WithHint("Record not found").
			Mark(ierr.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

// Clear removes everything. Used between tests.
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}
