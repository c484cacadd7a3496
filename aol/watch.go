package aol

import (
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// startUnknownFileWatch watches the log directory and logs a one-time
// warning the first time it sees an event for a directory entry outside
// 0…Files-1: this repo never acts on such files, but an operator should be
// told they exist. Best-effort only: a watcher that fails to start is
// logged and otherwise has no effect on the AOL.
func (a *AOL) startUnknownFileWatch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.logger.Warn().Str("aol_id", a.id).Err(err).Msg("aol: could not start directory watcher")
		return
	}
	if err := watcher.Add(a.cfg.Dir); err != nil {
		a.logger.Warn().Str("aol_id", a.id).Err(err).Msg("aol: could not watch log directory")
		watcher.Close()
		return
	}

	known := make(map[string]bool, a.cfg.Files)
	for i := 0; i < a.cfg.Files; i++ {
		known[strconv.Itoa(i)] = true
	}

	var warnOnce sync.Once
	go func() {
		defer watcher.Close()
		for event := range watcher.Events {
			name := filepathBase(event.Name)
			if known[name] {
				continue
			}
			warnOnce.Do(func() {
				a.logger.Warn().Str("aol_id", a.id).Str("file", name).
					Msg("aol: unexpected file in log directory, ignoring it")
			})
		}
	}()
}

func filepathBase(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
