package kv

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// maxKeyLen is the length ceiling imposed by the 2-byte length prefix).
const maxKeyLen = 1<<16 - 1

// Key is an opaque, length-prefixed UTF-8 byte string. Equality is byte-equality.
type Key struct {
	b []byte
}

// NewKey wraps raw bytes as a Key. Does not copy defensively on the hot path;
// callers that reuse the backing array after constructing a Key must not.
func NewKey(b []byte) (Key, error) {
	if len(b) > maxKeyLen {
		return Key{}, fmt.Errorf("kv: key length %d exceeds %d", len(b), maxKeyLen)
	}
	return Key{b: b}, nil
}

// KeyFromString is the common construction path for string-typed keys.
func KeyFromString(s string) (Key, error) {
	return NewKey([]byte(s))
}

func (k Key) Bytes() []byte { return k.b }
func (k Key) String() string { return string(k.b) }

func (k Key) Equal(other Key) bool {
	if len(k.b) != len(other.b) {
		return false
	}
	for i := range k.b {
		if k.b[i] != other.b[i] {
			return false
		}
	}
	return true
}

// Hash is a process-lifetime-stable, non-cryptographic hash; cross-process
// stability is not required. Used by both ShardedMap bucket selection and
// AOL file selection — nothing on disk is keyed by it.
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	h.Write(k.b)
	return h.Sum64()
}

// Serialize returns the length-prefixed wire form: 2-byte big-endian length + bytes.
func (k Key) Serialize() []byte {
	out := make([]byte, 2+len(k.b))
	binary.BigEndian.PutUint16(out, uint16(len(k.b)))
	copy(out[2:], k.b)
	return out
}

// DeserializeKey reads one length-prefixed key from b and reports bytes consumed.
func DeserializeKey(b []byte) (Key, int, error) {
	if len(b) < 2 {
		return Key{}, 0, fmt.Errorf("%w: truncated key length prefix", ErrCorrupt)
	}
	n := int(binary.BigEndian.Uint16(b))
	if len(b) < 2+n {
		return Key{}, 0, fmt.Errorf("%w: key payload shorter than declared length", ErrCorrupt)
	}
	key := Key{b: append([]byte(nil), b[2:2+n]...)}
	return key, 2 + n, nil
}
