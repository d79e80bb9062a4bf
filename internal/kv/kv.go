// Package kv provides the key to JSON-document stores underneath the typed
// persistence façade. Each implementation guarantees that a single-key write
// is atomic: readers never observe a partially written document.
package kv

import "context"

// Store is the narrow port the storage layer persists through. Get reports
// absence via ok=false rather than an error so callers can substitute
// defaults without inspecting error values.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
