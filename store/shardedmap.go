package store

import "github.com/launix-de/memkv/kv"

// Config configures a ShardedMap.
type Config struct {
	// Buckets is S, the bucket count. Must be >= 1; S=1 degenerates to a
	// single global lock, which is legal.
	Buckets int
	// Engine selects what backs each bucket. Zero value is EngineMutexMap.
	Engine BucketEngine
}

// DefaultBuckets is a modest default bucket count for callers that don't
// have a more specific concurrency target in mind.
const DefaultBuckets = 16

// ShardedMap is an in-memory, thread-safe Store with S independently-locked
// buckets. It has no dependencies of its own; durability is
// added by wrapping it in an aol.AOL.
type ShardedMap struct {
	buckets []bucket
}

// NewShardedMap constructs a ShardedMap. cfg.Buckets <= 0 is treated as
// DefaultBuckets.
func NewShardedMap(cfg Config) *ShardedMap {
	n := cfg.Buckets
	if n <= 0 {
		n = DefaultBuckets
	}
	m := &ShardedMap{buckets: make([]bucket, n)}
	for i := range m.buckets {
		m.buckets[i] = newBucket(cfg.Engine)
	}
	return m
}

func (m *ShardedMap) bucketFor(k kv.Key) bucket {
	idx := k.Hash() % uint64(len(m.buckets))
	return m.buckets[idx]
}

// Put binds k to v and returns the previous object, or kv.Null if none.
func (m *ShardedMap) Put(k kv.Key, v kv.Object) kv.Object {
	prev, had := m.bucketFor(k).put(k.String(), v)
	if !had {
		return kv.Null
	}
	return prev
}

// Get returns the object bound to k, or kv.Null if none.
func (m *ShardedMap) Get(k kv.Key) kv.Object {
	v, had := m.bucketFor(k).get(k.String())
	if !had {
		return kv.Null
	}
	return v
}

// Remove unbinds k and returns the removed object, or kv.Null if none.
func (m *ShardedMap) Remove(k kv.Key) kv.Object {
	v, had := m.bucketFor(k).remove(k.String())
	if !had {
		return kv.Null
	}
	return v
}

var _ Store = (*ShardedMap)(nil)
