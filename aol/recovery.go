package aol

import (
	"encoding/binary"

	"github.com/launix-de/memkv/internal/traceid"
	"github.com/launix-de/memkv/kv"
)

// recoverAll replays every file's complete entries into a.inner. Per-file
// order is preserved; cross-file order is unspecified, so files recover
// concurrently, one goroutine each, collected through a done channel.
func (a *AOL) recoverAll() error {
	done := make(chan error, len(a.files))
	for i := range a.files {
		i := i
		traceid.Go(func() {
			done <- a.recoverFile(i)
		})
	}
	var firstErr error
	for range a.files {
		if err := <-done; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// recoverFile replays one file's complete entries. A torn tail — a
// truncated length prefix, or a declared size exceeding what remains in the
// file — is discarded silently.
// Structural damage inside a complete frame (bad key/object encoding, an
// unknown op byte, or a codec that consumed the wrong number of bytes)
// aborts recovery of this file with ObjectParse or CorruptedEntry.
func (a *AOL) recoverFile(i int) error {
	data, err := a.files[i].backend.ReadAll()
	if err != nil {
		return newErr(Io, i, err)
	}

	applied := 0
	off := 0
	for {
		if len(data)-off < frameLenSize {
			break // clean EOF, or a torn length prefix: both discarded silently
		}
		size := binary.BigEndian.Uint64(data[off : off+frameLenSize])
		entryStart := off + frameLenSize
		if uint64(len(data)-entryStart) < size {
			break // torn tail: declared size exceeds what remains
		}
		entry := data[entryStart : entryStart+int(size)]

		if err := a.applyEntry(entry); err != nil {
			a.logger.Error().Str("aol_id", a.id).Str("correlation_id", traceid.Current()).
				Int("file", i).Int("offset", off).Err(err).Msg("aol recovery aborted: corrupt entry")
			return err
		}
		applied++
		off = entryStart + int(size)
	}

	a.logger.Info().Str("aol_id", a.id).Str("correlation_id", traceid.Current()).
		Int("file", i).Int("entries_applied", applied).Int("bytes_total", len(data)).
		Int("bytes_discarded_tail", len(data)-off).Msg("aol file recovered")
	return nil
}

func (a *AOL) applyEntry(entry []byte) error {
	if len(entry) < 1 {
		return newErr(CorruptedEntry, -1, errEmptyEntry)
	}
	op := entry[0]
	rest := entry[1:]

	key, nKey, err := kv.DeserializeKey(rest)
	if err != nil {
		return newErr(ObjectParse, -1, err)
	}
	rest = rest[nKey:]

	switch op {
	case opPut:
		obj, nObj, err := kv.DeserializeObject(rest)
		if err != nil {
			return newErr(ObjectParse, -1, err)
		}
		if 1+nKey+nObj != len(entry) {
			return newErr(CorruptedEntry, -1, errFrameSizeMismatch)
		}
		a.inner.Put(key, obj)
		return nil
	case opDelete:
		if 1+nKey != len(entry) {
			return newErr(CorruptedEntry, -1, errFrameSizeMismatch)
		}
		a.inner.Remove(key)
		return nil
	default:
		return newErr(CorruptedEntry, -1, errUnknownOp)
	}
}
