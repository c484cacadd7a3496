package aol

import (
	"encoding/binary"

	"github.com/launix-de/memkv/kv"
)

// Op tags a LogEntry.
const (
	opPut    byte = 0
	opDelete byte = 1
)

const frameLenSize = 8

// encodeFrame builds one on-disk LogEntry: an 8-byte big-endian length
// followed by [op, key, object?]. obj is nil for DELETE.
func encodeFrame(op byte, k kv.Key, obj *kv.Object) []byte {
	entry := make([]byte, 0, 1+len(k.Bytes())+16)
	entry = append(entry, op)
	entry = append(entry, k.Serialize()...)
	if obj != nil {
		entry = append(entry, obj.Serialize()...)
	}
	frame := make([]byte, frameLenSize+len(entry))
	binary.BigEndian.PutUint64(frame, uint64(len(entry)))
	copy(frame[frameLenSize:], entry)
	return frame
}
