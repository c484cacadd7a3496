// Package aol implements the AppendOnlyLog (AOL), a durable Store decorator
// backed by F append-only file shards. It is the hard part
// of the core: it couples write-ahead logging, per-file sharding of I/O,
// fsync-bounded durability, and crash recovery from partially written
// files.
package aol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/launix-de/memkv/internal/traceid"
	"github.com/launix-de/memkv/kv"
	"github.com/launix-de/memkv/store"
)

// DurableStore is the Store contract widened with a fallible write path:
// the AOL's write path performs real I/O that can fail, so Put/Remove
// return an error rather than panicking or swallowing the failure into a
// side flag. Get stays infallible: reads never touch the log.
type DurableStore interface {
	Put(k kv.Key, v kv.Object) (kv.Object, error)
	Get(k kv.Key) kv.Object
	Remove(k kv.Key) (kv.Object, error)
}

// fileShard pairs one log file with the lock guarding its append+fsync
// critical section. Orthogonal to the inner Store's own bucket locks — the
// two are never held simultaneously, so deadlock between the layers is
// impossible.
type fileShard struct {
	mu      sync.Mutex
	backend fileBackend
}

// AOL is a durable Store decorator: every mutation is appended and fsynced
// to its owning log file before the inner Store is mutated.
type AOL struct {
	cfg    Config
	inner  store.Store
	files  []*fileShard
	logger zerolog.Logger
	id     string
}

// Open constructs an AOL over dir with cfg.Files log files, wrapping inner.
// When cfg.Recover is false this is the "fresh" constructor: dir and
// 0…F-1 are created if missing, but never read. When true, it is the "with
// recovery" constructor: the same setup, then every file's complete
// entries are replayed into inner before Open returns.
func Open(cfg Config, inner store.Store) (*AOL, error) {
	if cfg.Files < 1 {
		return nil, newErr(Io, -1, fmt.Errorf("aol: Files must be >= 1, got %d", cfg.Files))
	}
	logger := cfg.logger()

	if cfg.Backend == BackendLocal {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, newErr(DirectoryCreation, -1, err)
		}
	}

	a := &AOL{cfg: cfg, inner: inner, logger: logger, id: uuid.NewString()}
	a.files = make([]*fileShard, cfg.Files)

	for i := 0; i < cfg.Files; i++ {
		backend, err := openBackend(cfg, i)
		if err != nil {
			a.closeOpened(i)
			return nil, newErr(Io, i, err)
		}
		a.files[i] = &fileShard{backend: backend}
	}

	logger.Info().Str("aol_id", a.id).Str("dir", cfg.Dir).Int("files", cfg.Files).
		Str("backend", cfg.Backend.String()).Bool("recover", cfg.Recover).Msg("aol opened")

	if cfg.WatchUnknownFiles && cfg.Backend == BackendLocal {
		a.startUnknownFileWatch()
	}

	if cfg.Recover {
		runID := uuid.NewString()
		var recErr error
		traceid.With(runID, func() {
			recErr = a.recoverAll()
		})
		if recErr != nil {
			a.closeOpened(cfg.Files)
			return nil, recErr
		}
	}

	return a, nil
}

func openBackend(cfg Config, shardIndex int) (fileBackend, error) {
	switch cfg.Backend {
	case BackendS3:
		return openS3FileBackend(context.Background(), cfg.S3, shardIndex)
	case BackendCeph:
		return openCephFileBackend(context.Background(), cfg.Ceph, shardIndex)
	default:
		return openLocalFileBackend(filepath.Join(cfg.Dir, fmt.Sprintf("%d", shardIndex)))
	}
}

func (a *AOL) closeOpened(n int) {
	for i := 0; i < n; i++ {
		if a.files[i] != nil && a.files[i].backend != nil {
			a.files[i].backend.Close()
		}
	}
}

// Close releases every log file's resources. There is no
// rotation/truncation/close protocol beyond normal process exit; this
// exists for embedders that want deterministic descriptor cleanup (see
// also the onexit hook main.go registers).
func (a *AOL) Close() error {
	var first error
	for _, f := range a.files {
		if err := f.backend.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *AOL) shardFor(k kv.Key) (int, *fileShard) {
	idx := int(k.Hash() % uint64(len(a.files)))
	return idx, a.files[idx]
}

// Put logs the mutation, fsyncs it, and only then applies it to the inner
// Store. On a write-path I/O failure the inner Store is left unmutated and
// the error is returned to the caller; the AOL does not auto-recover, and
// a retry is a fresh attempt.
func (a *AOL) Put(k kv.Key, v kv.Object) (kv.Object, error) {
	if err := a.append(k, opPut, &v); err != nil {
		return kv.Object{}, err
	}
	return a.inner.Put(k, v), nil
}

// Remove logs the deletion, fsyncs it, and only then applies it to the
// inner Store. Every Remove call writes a DELETE entry, including for keys
// that turn out to be absent — replaying a DELETE for an absent key is a
// no-op, so this never changes observable Store semantics. See DESIGN.md
// for why this always logs rather than checking presence first.
func (a *AOL) Remove(k kv.Key) (kv.Object, error) {
	if err := a.append(k, opDelete, nil); err != nil {
		return kv.Object{}, err
	}
	return a.inner.Remove(k), nil
}

// Get bypasses the log entirely and delegates straight to the inner Store:
// no log I/O, no lock on the log file.
func (a *AOL) Get(k kv.Key) kv.Object {
	return a.inner.Get(k)
}

func (a *AOL) append(k kv.Key, op byte, obj *kv.Object) error {
	frame := encodeFrame(op, k, obj)
	idx, shard := a.shardFor(k)

	shard.mu.Lock()
	err := shard.backend.Append(frame)
	shard.mu.Unlock()

	if err != nil {
		a.logger.Error().Str("aol_id", a.id).Str("correlation_id", traceid.Current()).
			Int("file", idx).Err(err).Msg("aol write-path fsync/append failed")
		return newErr(Io, idx, err)
	}
	return nil
}

var _ DurableStore = (*AOL)(nil)
