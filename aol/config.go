package aol

import "github.com/rs/zerolog"

// Config configures an AOL.
type Config struct {
	// Dir is the directory holding the log files. Must be creatable/writable.
	Dir string
	// Files is F, the number of log files (AOL shards). Must be >= 1.
	Files int
	// Recover, when true, replays all files into the inner Store before
	// Open returns (the "with recovery" constructor). When false, Open is
	// the "fresh" constructor: files are created/opened but not read.
	Recover bool
	// Backend selects the file storage backend. Zero value is BackendLocal.
	Backend Backend
	// S3 configures BackendS3; ignored otherwise.
	S3 S3Config
	// Ceph configures BackendCeph; ignored otherwise.
	Ceph CephConfig
	// WatchUnknownFiles starts an fsnotify watcher on Dir that logs a
	// one-time warning if it observes a filesystem event for an entry
	// outside 0…Files-1.
	// Purely observational; never affects correctness.
	WatchUnknownFiles bool
	// Logger receives structured logs for open/recovery/corruption/fsync
	// events. nil (the zero value) logs nothing.
	Logger *zerolog.Logger
}

func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return zerolog.Nop()
}
