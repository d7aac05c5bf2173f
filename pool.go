package proxalloc

import (
	"sync"

	"proxalloc/internal/memregion"
	"proxalloc/internal/slab"
)

// pool is a single OS memory map managed as a slab (spec's "Pool"). Its
// base address and length are fixed for its lifetime; only the slab's free
// list changes. A pool moves through the states Reserved (just created, no
// suballocations yet, not in the registry) -> Live (>=1 suballocation,
// admitted to the registry) -> Reclaimable (last suballocation released,
// registry entry possibly stale) -> Gone (entry pruned, mapping returned to
// the OS). The Live/Reclaimable/Gone transitions are observation-driven:
// they complete whenever an allocator operation notices refCount hit zero
// or notices a stale registry entry.
type pool struct {
	region *memregion.Region
	slab   *slab.Slab
	base   uintptr
	length int

	mu       sync.Mutex
	refCount int
	closed   bool
}

func newPool(region *memregion.Region) *pool {
	return &pool{
		region: region,
		slab:   slab.New(region.Bytes()),
		base:   region.Base(),
		length: region.Len(),
	}
}

// allocate attempts a suballocation of size bytes, returning a live box on
// success. The slab reservation, the closed check and the refCount bump
// all happen under mu so this can never observe a pool mid-teardown: once
// release has decided to unmap (and set closed), no later allocate can
// hand out a box backed by memory the OS may already have reclaimed. This
// is the Go equivalent of the original's Weak::upgrade being a CAS on the
// same atomic count that gates Drop.
func (p *pool) allocate(size int) (*ProximityBox, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false
	}

	offset, ok := p.slab.Alloc(size)
	if !ok {
		return nil, false
	}

	p.refCount++
	return newBox(p, offset, size), true
}

// release returns [offset, offset+size) to the slab's free list and, if
// this was the pool's last outstanding suballocation, unmaps its backing
// region. The slab release, refCount decrement and closed decision happen
// under mu, atomically with allocate's check above; the actual unmap runs
// outside the lock since nothing else touches region.Close once closed is
// set. Unmap errors are not surfaced — there is no live box or future call
// site left to report them to — so they are dropped; a caller who cares
// can track RegionFailure-style diagnostics with their own wrapper.
func (p *pool) release(offset, size int) {
	p.mu.Lock()
	p.slab.Release(offset, size)
	p.refCount--
	empty := p.refCount == 0 && !p.closed
	if empty {
		p.closed = true
	}
	p.mu.Unlock()

	if empty {
		_ = p.region.Close()
	}
}
