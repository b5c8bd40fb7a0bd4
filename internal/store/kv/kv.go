// Package kv is the keyed blob store behind the console's business data.
// The original deployment held this data in a key/value table; here it is
// Redis in production and an in-memory map in tests and single-process runs.
package kv

import "context"

// Store reads and writes opaque values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
