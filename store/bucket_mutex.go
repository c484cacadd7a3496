package store

import (
	"sync"

	"github.com/launix-de/memkv/kv"
)

// mutexBucket is a sync.RWMutex-guarded map of entries, one per ShardedMap
// bucket.
type mutexBucket struct {
	mu   sync.RWMutex
	data map[string]kv.Object
}

func newMutexBucket() *mutexBucket {
	return &mutexBucket{data: make(map[string]kv.Object)}
}

func (b *mutexBucket) get(keyBytes string) (kv.Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[keyBytes]
	return v, ok
}

func (b *mutexBucket) put(keyBytes string, v kv.Object) (kv.Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, had := b.data[keyBytes]
	b.data[keyBytes] = v
	return prev, had
}

func (b *mutexBucket) remove(keyBytes string) (kv.Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, had := b.data[keyBytes]
	if had {
		delete(b.data, keyBytes)
	}
	return prev, had
}
