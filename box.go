package proxalloc

import (
	"runtime"
	"sync/atomic"
)

// ProximityBox is a live suballocation: a byte slice [base, base+len) that
// holds a strong reference to its owning pool (keeping the pool's mapping
// alive) plus the slab ticket that returns the range on release.
//
// Go has no destructors, so the Rust original's Drop-based release is
// expressed as an explicit Close (io.Closer), backed by a runtime.AddCleanup
// safety net for callers that forget to call it.
type ProximityBox struct {
	pool   *pool
	offset int
	size   int
	closed *atomic.Bool
}

type boxCleanupState struct {
	pool   *pool
	offset int
	size   int
	closed *atomic.Bool
}

func newBox(p *pool, offset, size int) *ProximityBox {
	closed := new(atomic.Bool)
	box := &ProximityBox{pool: p, offset: offset, size: size, closed: closed}

	runtime.AddCleanup(box, releaseOnCleanup, boxCleanupState{
		pool: p, offset: offset, size: size, closed: closed,
	})
	return box
}

func releaseOnCleanup(s boxCleanupState) {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.release(s.offset, s.size)
	}
}

// Bytes returns the suballocation's backing bytes as a mutable span.
func (b *ProximityBox) Bytes() []byte {
	return b.pool.region.Bytes()[b.offset : b.offset+b.size]
}

// Base returns the suballocation's address.
func (b *ProximityBox) Base() uintptr {
	return b.pool.base + uintptr(b.offset)
}

// Len returns the suballocation's size in bytes.
func (b *ProximityBox) Len() int { return b.size }

// Close releases the suballocation. Safe to call more than once; only the
// first call has an effect. Once the last box derived from a pool is
// closed, the pool's backing OS mapping is released.
func (b *ProximityBox) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.pool.release(b.offset, b.size)
	}
	return nil
}
