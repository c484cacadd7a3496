//go:build linux

package aol

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync forces the file's data, and enough metadata to observe the new
// length after a crash, to stable storage. On
// Linux, fdatasync skips flushing metadata that doesn't affect a
// subsequent read (e.g. mtime) while still flushing the file size, which
// is all this barrier needs.
func datasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
