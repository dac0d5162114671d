// internal/core/ports/cache.go
package ports

import "context"

// CacheRepository is the local persistent key-value port. It is a latency
// bridge, never the system of record; callers are expected to degrade
// gracefully when it fails.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
