package aol

import (
	"fmt"
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
)

// Stats reports per-file and total byte counts. For BackendLocal this is an
// os.Stat of each file bytes"); for the buffered remote backends it reflects the
// in-memory buffer, which is kept equal to the durable object's size.
type Stats struct {
	Files      int
	PerFile    []int64
	TotalBytes int64
}

// String renders a human-readable summary using docker/go-units for
// humanized byte counts.
func (s Stats) String() string {
	return fmt.Sprintf("%d files, %s total", s.Files, units.HumanSize(float64(s.TotalBytes)))
}

// Stats reports current log file sizes.
func (a *AOL) Stats() (Stats, error) {
	out := Stats{Files: len(a.files), PerFile: make([]int64, len(a.files))}
	if a.cfg.Backend != BackendLocal {
		for i, f := range a.files {
			data, err := f.backend.ReadAll()
			if err != nil {
				return Stats{}, newErr(Io, i, err)
			}
			out.PerFile[i] = int64(len(data))
			out.TotalBytes += int64(len(data))
		}
		return out, nil
	}
	for i := range a.files {
		fi, err := os.Stat(filepath.Join(a.cfg.Dir, fmt.Sprintf("%d", i)))
		if err != nil {
			return Stats{}, newErr(Io, i, err)
		}
		out.PerFile[i] = fi.Size()
		out.TotalBytes += fi.Size()
	}
	return out, nil
}
