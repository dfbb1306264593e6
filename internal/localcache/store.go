// Package localcache holds the device-local key-value cache that mirrors
// remote state between runs.
package localcache

import "context"

// Keys used by the app. Nothing else is written to the cache.
const (
	KeyMyList    = "myList"
	KeyUserToken = "userToken"
)

// Store is a persistent string key-value store.
// Get reports ok=false for a missing key; Remove ignores missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}
