// Package kvstore provides the persistent key-value backing the state
// stores mirror themselves into. Values are opaque JSON snapshots; the
// stores own their formats.
package kvstore

// Store is a string-keyed durable store. Get reports whether the key
// exists; a missing key is not an error.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Well-known keys. Name-stable: persisted snapshots from earlier runs
// must keep loading under the same keys.
const (
	KeyCurrentUser = "session.currentUser"
	KeyRegistry    = "session.registry"
	KeyCartLines   = "cart.lines"
	KeyOrderLedger = "orders.ledger"
)
