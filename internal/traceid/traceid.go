// Package traceid threads a per-call correlation id through the AOL's
// write and recovery paths for logging, without widening the Store
// contract's synchronous, context-free signatures. State is carried via
// goroutine-local storage rather than an explicit parameter threaded
// through every call.
package traceid

import "github.com/jtolds/gls"

var mgr = gls.NewContextManager()

const key = "memkv_correlation_id"

// With runs f with id bound as the goroutine-local correlation id. Nested
// calls within f (including in the same goroutine) observe it via Current.
func With(id string, f func()) {
	mgr.SetValues(gls.Values{key: id}, f)
}

// Go forks f into a new goroutine that inherits the caller's bound
// correlation id. A bare `go` statement does not propagate gls state;
// callers that want the id to follow a spawned worker must use Go instead.
func Go(f func()) {
	gls.Go(f)
}

// Current returns the bound correlation id, or "" if none is bound.
func Current() string {
	if v, ok := mgr.GetValue(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
