//go:build !linux

package aol

import "os"

// datasync forces the file to stable storage. Non-Linux targets don't get
// the fdatasync shortcut, so this falls back to a full metadata+data sync.
func datasync(f *os.File) error {
	return f.Sync()
}
