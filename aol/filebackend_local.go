package aol

import (
	"io"
	"os"
)

// localFileBackend is one log file opened once and held in append mode for
// the AOL's lifetime. Re-opening per operation would be wrong: append-mode
// semantics and the fsync barrier below both depend on one long-lived
// descriptor.
type localFileBackend struct {
	f *os.File
}

func openLocalFileBackend(path string) (*localFileBackend, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}
	return &localFileBackend{f: f}, nil
}

func (b *localFileBackend) Append(frame []byte) error {
	if _, err := b.f.Write(frame); err != nil {
		return err
	}
	return datasync(b.f)
}

func (b *localFileBackend) ReadAll() ([]byte, error) {
	if _, err := b.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(b.f)
	if err != nil {
		return nil, err
	}
	// O_APPEND makes Write always target EOF regardless of the current
	// offset, but leave the descriptor positioned at EOF for clarity.
	if _, err := b.f.Seek(0, io.SeekEnd); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *localFileBackend) Close() error {
	return b.f.Close()
}
