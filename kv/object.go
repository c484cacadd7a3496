package kv

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// maxContainerLen bounds List/Map element counts to what a 2-byte count prefix
// can address.
const maxContainerLen = 1<<16 - 1

// Object is a tagged value: a Kind byte plus an opaque payload. The store
// never interprets payload internals — this package exists only
// because the AOL needs a concrete, self-delimiting codec to frame and
// replay against; it is not part of the Store contract itself.
type Object struct {
	Kind    Kind
	Int     int64
	Text    string
	List    []Object
	Map     []MapEntry
	Link    string
}

// MapEntry is one key/value pair of a Map object. Map is represented as an
// ordered slice of pairs rather than a native Go map: codec output must be
// deterministic, and Go map iteration order is not.
type MapEntry struct {
	Key   Key
	Value Object
}

// Null is the sentinel meaning "absent" at the Store return-value level. It
// is also a valid value to store in its own right, distinct from absence.
var Null = Object{Kind: KindNull}

func (o Object) IsNull() bool { return o.Kind == KindNull }

// String renders a human-readable form for CLI/log output. It has no
// bearing on the wire format: Serialize is the only codec that matters for
// durability.
func (o Object) String() string {
	switch o.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", o.Int)
	case KindText:
		return o.Text
	case KindLink:
		return "->" + o.Link
	case KindList:
		parts := make([]string, len(o.List))
		for i, item := range o.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(o.Map))
		for i, entry := range o.Map {
			parts[i] = entry.Key.String() + ": " + entry.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}

// Equal reports deep equality, used by tests and by nothing in the
// production path (the store never compares objects).
func (o Object) Equal(other Object) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case KindNull:
		return true
	case KindInt:
		return o.Int == other.Int
	case KindText:
		return o.Text == other.Text
	case KindLink:
		return o.Link == other.Link
	case KindList:
		if len(o.List) != len(other.List) {
			return false
		}
		for i := range o.List {
			if !o.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(o.Map) != len(other.Map) {
			return false
		}
		for i := range o.Map {
			if !o.Map[i].Key.Equal(other.Map[i].Key) || !o.Map[i].Value.Equal(other.Map[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Serialize produces the self-delimiting wire form: a Kind byte followed by
// a payload whose length is fully determined by Kind (and, for containers,
// an explicit count) — no external length is required to deserialize it.
func (o Object) Serialize() []byte {
	switch o.Kind {
	case KindNull:
		return []byte{byte(KindNull)}
	case KindInt:
		out := make([]byte, 1+8)
		out[0] = byte(KindInt)
		binary.BigEndian.PutUint64(out[1:], uint64(o.Int))
		return out
	case KindText:
		return serializeTextLike(byte(KindText), o.Text)
	case KindLink:
		return serializeTextLike(byte(KindLink), o.Link)
	case KindList:
		out := []byte{byte(KindList)}
		var count [2]byte
		binary.BigEndian.PutUint16(count[:], uint16(len(o.List)))
		out = append(out, count[:]...)
		for _, item := range o.List {
			out = append(out, item.Serialize()...)
		}
		return out
	case KindMap:
		out := []byte{byte(KindMap)}
		var count [2]byte
		binary.BigEndian.PutUint16(count[:], uint16(len(o.Map)))
		out = append(out, count[:]...)
		for _, entry := range o.Map {
			out = append(out, entry.Key.Serialize()...)
			out = append(out, entry.Value.Serialize()...)
		}
		return out
	default:
		panic(fmt.Sprintf("kv: unknown kind %d", o.Kind))
	}
}

func serializeTextLike(kind byte, s string) []byte {
	out := make([]byte, 1+2+len(s))
	out[0] = kind
	binary.BigEndian.PutUint16(out[1:3], uint16(len(s)))
	copy(out[3:], s)
	return out
}

// DeserializeObject reads one self-delimiting Object from b and reports
// bytes consumed. Returns ErrCorrupt (wrapped) when b describes a
// structurally invalid value (unknown kind byte, a count that claims more
// bytes than are present, etc.) — the caller (AOL recovery) is responsible
// for distinguishing this from a torn tail using the outer frame length.
func DeserializeObject(b []byte) (Object, int, error) {
	if len(b) < 1 {
		return Object{}, 0, fmt.Errorf("%w: empty object", ErrCorrupt)
	}
	kind := Kind(b[0])
	if !kind.valid() {
		return Object{}, 0, fmt.Errorf("%w: unknown object kind %d", ErrCorrupt, b[0])
	}
	switch kind {
	case KindNull:
		return Object{Kind: KindNull}, 1, nil
	case KindInt:
		if len(b) < 1+8 {
			return Object{}, 0, fmt.Errorf("%w: truncated int payload", ErrCorrupt)
		}
		v := int64(binary.BigEndian.Uint64(b[1:9]))
		return Object{Kind: KindInt, Int: v}, 9, nil
	case KindText:
		s, n, err := deserializeTextLike(b[1:])
		if err != nil {
			return Object{}, 0, err
		}
		return Object{Kind: KindText, Text: s}, 1 + n, nil
	case KindLink:
		s, n, err := deserializeTextLike(b[1:])
		if err != nil {
			return Object{}, 0, err
		}
		return Object{Kind: KindLink, Link: s}, 1 + n, nil
	case KindList:
		if len(b) < 3 {
			return Object{}, 0, fmt.Errorf("%w: truncated list count", ErrCorrupt)
		}
		count := int(binary.BigEndian.Uint16(b[1:3]))
		off := 3
		items := make([]Object, 0, count)
		for i := 0; i < count; i++ {
			item, n, err := DeserializeObject(b[off:])
			if err != nil {
				return Object{}, 0, err
			}
			items = append(items, item)
			off += n
		}
		return Object{Kind: KindList, List: items}, off, nil
	case KindMap:
		if len(b) < 3 {
			return Object{}, 0, fmt.Errorf("%w: truncated map count", ErrCorrupt)
		}
		count := int(binary.BigEndian.Uint16(b[1:3]))
		off := 3
		entries := make([]MapEntry, 0, count)
		for i := 0; i < count; i++ {
			key, n, err := DeserializeKey(b[off:])
			if err != nil {
				return Object{}, 0, err
			}
			off += n
			val, n, err := DeserializeObject(b[off:])
			if err != nil {
				return Object{}, 0, err
			}
			off += n
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Object{Kind: KindMap, Map: entries}, off, nil
	default:
		return Object{}, 0, fmt.Errorf("%w: unhandled kind %d", ErrCorrupt, b[0])
	}
}

func deserializeTextLike(b []byte) (string, int, error) {
	if len(b) < 2 {
		return "", 0, fmt.Errorf("%w: truncated length prefix", ErrCorrupt)
	}
	n := int(binary.BigEndian.Uint16(b))
	if len(b) < 2+n {
		return "", 0, fmt.Errorf("%w: payload shorter than declared length", ErrCorrupt)
	}
	return string(b[2 : 2+n]), 2 + n, nil
}

// Convenience constructors mirroring the closed Kind set.
func NewInt(v int64) Object   { return Object{Kind: KindInt, Int: v} }
func NewText(v string) Object { return Object{Kind: KindText, Text: v} }
func NewLink(v string) Object { return Object{Kind: KindLink, Link: v} }
func NewList(items ...Object) Object { return Object{Kind: KindList, List: items} }
func NewMap(entries ...MapEntry) Object { return Object{Kind: KindMap, Map: entries} }
