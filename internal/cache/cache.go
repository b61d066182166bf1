package cache

import (
	"context"
	"time"
)

const (
	// ExpiryDefaultInMemory is the fallback TTL for cached values.
	ExpiryDefaultInMemory = 30 * time.Minute

	// ExpiryDashboardMetrics keeps dashboard aggregates fresh without
	// recomputing them on every request.
	ExpiryDashboardMetrics = 30 * time.Second
)

// Cache is a minimal get/set interface so callers never depend on the
// backing store.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
}

// UnmarshalCacheValue converts a cached value back to its typed form.
// Returns the typed value and true if successful, nil and false otherwise.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	if typed, ok := value.(*T); ok {
		return typed, true
	}
	return nil, false
}
