package store

import "github.com/launix-de/memkv/kv"

// bucket is what one of ShardedMap's S independently-locked partitions
// stores its entries in. Keyed by the raw key bytes rather than
// a kv.Key value so both bucket engines can use a plain comparable/ordered
// key type.
type bucket interface {
	get(keyBytes string) (kv.Object, bool)
	put(keyBytes string, v kv.Object) (prev kv.Object, had bool)
	remove(keyBytes string) (prev kv.Object, had bool)
}

// BucketEngine selects what backs each ShardedMap bucket. Both guarantee
// readers never block readers of a different bucket; they differ in what
// they do to readers/writers of the *same* bucket.
type BucketEngine int

const (
	// EngineMutexMap is a sync.RWMutex-guarded Go map: the default,
	// general-purpose engine.
	EngineMutexMap BucketEngine = iota
	// EngineReadOptimized wraps a vendored lock-free, read-optimized
	// ordered structure (O(log N) nonblocking reads, O(N log N) writes)
	// for buckets expected to be read far more often than written.
	EngineReadOptimized
)

func newBucket(engine BucketEngine) bucket {
	switch engine {
	case EngineReadOptimized:
		return newReadOptimizedBucket()
	default:
		return newMutexBucket()
	}
}
