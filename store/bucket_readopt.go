package store

import (
	"github.com/launix-de/memkv/kv"
	nlrm "github.com/launix-de/NonLockingReadMap"
)

// nlrmEntry adapts a (key, value) pair to NonLockingReadMap's
// KeyGetter[string] + Sizable contract.
type nlrmEntry struct {
	key string
	val kv.Object
}

func (e nlrmEntry) GetKey() string { return e.key }

// ComputeSize is a rough accounting estimate only (Non-goals exclude memory
// accounting as a tracked feature; this exists solely to satisfy the
// Sizable interface NonLockingReadMap requires of its elements).
func (e nlrmEntry) ComputeSize() uint {
	return uint(32 + len(e.key) + len(e.val.Serialize()))
}

// readOptimizedBucket backs one ShardedMap bucket with the vendored
// lock-free, read-optimized NonLockingReadMap.
type readOptimizedBucket struct {
	m nlrm.NonLockingReadMap[nlrmEntry, string]
}

func newReadOptimizedBucket() *readOptimizedBucket {
	return &readOptimizedBucket{m: nlrm.New[nlrmEntry, string]()}
}

func (b *readOptimizedBucket) get(keyBytes string) (kv.Object, bool) {
	entry := b.m.Get(keyBytes)
	if entry == nil {
		return kv.Object{}, false
	}
	return entry.val, true
}

func (b *readOptimizedBucket) put(keyBytes string, v kv.Object) (kv.Object, bool) {
	prev := b.m.Set(&nlrmEntry{key: keyBytes, val: v})
	if prev == nil {
		return kv.Object{}, false
	}
	return prev.val, true
}

func (b *readOptimizedBucket) remove(keyBytes string) (kv.Object, bool) {
	prev := b.m.Remove(keyBytes)
	if prev == nil {
		return kv.Object{}, false
	}
	return prev.val, true
}
