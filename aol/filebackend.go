package aol

// fileBackend is what one of the AOL's F log files *is*, pulled behind an
// interface so the append/fsync/read contract stays backend-agnostic. The
// default is a local file; s3FileBackend and cephFileBackend are opt-in
// alternatives.
type fileBackend interface {
	// Append writes frame and forces it to stable storage before
	// returning. It must be safe to call only while the caller holds this
	// file's lock.
	Append(frame []byte) error
	// ReadAll returns the file's entire current contents, for recovery.
	// Only called at construction, before any Append.
	ReadAll() ([]byte, error)
	// Close releases the backend's resources.
	Close() error
}

// Backend selects which fileBackend implementation an AOL's log files use.
type Backend int

const (
	// BackendLocal uses one long-lived local *os.File per log file shard,
	// in append mode. The default.
	BackendLocal Backend = iota
	// BackendS3 stores each log file shard as an object in an S3-compatible
	// bucket, appended by re-PutObject of a growing in-memory buffer.
	BackendS3
	// BackendCeph stores each log file shard as a RADOS object, appended
	// in place. Requires the ceph build tag; without it, opening a
	// BackendCeph AOL panics.
	BackendCeph
)

func (b Backend) String() string {
	switch b {
	case BackendLocal:
		return "local"
	case BackendS3:
		return "s3"
	case BackendCeph:
		return "ceph"
	default:
		return "unknown"
	}
}
