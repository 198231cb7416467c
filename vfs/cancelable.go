package vfs

import (
	"sync/atomic"
)

// Cancelable is a cheap, atomic cancellation flag: Cancel sets it and
// IsCancelled reads it. Nothing in this module creates or checks one; in
// particular the webdav JSON/ZIP dump walkers do not consult it and run to
// completion even after the client's connection has closed.
type Cancelable struct {
	cancelled int32
}

// Cancel marks this Cancelable as cancelled. Idempotent.
func (c *Cancelable) Cancel() {
	atomic.StoreInt32(&c.cancelled, 1)
}

// IsCancelled reports whether Cancel has been called.
func (c *Cancelable) IsCancelled() bool {
	return atomic.LoadInt32(&c.cancelled) != 0
}
