// Package store owns the commerce state: session identity, cart lines
// with derived pricing, and the append-only order ledger. Every store is
// write-through: in-memory state is authoritative for the session and is
// mirrored to the key-value backing after each mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spicehut/storefront/internal/kvstore"
)

// ErrWriteFailed wraps a failed persistence write. In-memory state is
// kept; callers decide whether the failure is fatal for their operation.
var ErrWriteFailed = errors.New("persistence write failed")

// loadSnapshot reads and decodes a persisted snapshot into v. A missing
// key leaves v untouched and returns false. A value that fails to decode
// is discarded so the component starts empty instead of crashing.
func loadSnapshot(kv kvstore.Store, key string, v interface{}) bool {
	raw, ok, err := kv.Get(key)
	if err != nil {
		slog.Warn("failed to read persisted snapshot", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("discarding corrupted persisted snapshot", "key", key, "error", err)
		if delErr := kv.Delete(key); delErr != nil {
			slog.Warn("failed to discard corrupted snapshot", "key", key, "error", delErr)
		}
		return false
	}
	return true
}

// saveSnapshot encodes v and mirrors it to the backing store.
func saveSnapshot(kv kvstore.Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %q: %w", key, err)
	}
	if err := kv.Put(key, raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}
