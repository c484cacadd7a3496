// Package store implements the Store contract and its in-memory,
// sharded-lock implementation, ShardedMap.
package store

import "github.com/launix-de/memkv/kv"

// Store is the three-operation keyed mapping abstraction. All three
// operations are synchronous, safely callable from multiple goroutines, and
// infallible at this level: absence is encoded as kv.Null, never an error.
// Backends that can fail at runtime (AOL) escalate failures out of band —
// see the aol package.
type Store interface {
	// Put binds k to v and returns the previous object for k, or kv.Null if
	// none existed.
	Put(k kv.Key, v kv.Object) kv.Object
	// Get returns the object bound to k, or kv.Null if none.
	Get(k kv.Key) kv.Object
	// Remove unbinds k and returns the removed object, or kv.Null if none
	// existed.
	Remove(k kv.Key) kv.Object
}
