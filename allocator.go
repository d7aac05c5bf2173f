package proxalloc

import (
	"sync"
	"weak"

	"github.com/google/btree"

	"proxalloc/internal/memregion"
	"proxalloc/internal/scanner"
)

// registryEntry is the pool registry's value type: a pool base address
// paired with a non-owning (weak) reference to it. The registry never
// extends a pool's lifetime — promoting ref to a strong pointer can return
// nil, at which point the entry is stale and must be pruned.
//
// Keyed on base address alone, not [base, base+len), per spec §9's first
// open question — matching the original Rust source's BTreeMap<usize, ..>
// keying. A pool whose base lies in a window but whose end extends past it
// is therefore still visible to a phase A scan; the per-suballocation
// window post-check (below) is what keeps that loose keying safe.
type registryEntry struct {
	base uintptr
	ref  weak.Pointer[pool]
}

func registryLess(a, b registryEntry) bool {
	return a.base < b.base
}

// ProximityAllocator hands out suballocations whose address lies within a
// caller-specified distance of an origin. Safe for concurrent use.
type ProximityAllocator struct {
	protection memregion.Protection

	mu       sync.RWMutex
	registry *btree.BTreeG[registryEntry]

	statsMu sync.Mutex
	stats   Stats
}

// New constructs an allocator with the default read/write/execute mapping
// options.
func New() *ProximityAllocator {
	return WithOptions(memregion.Read | memregion.Write | memregion.Exec)
}

// WithOptions constructs an allocator that reserves every pool with the
// given protection. The protection is reused, unmodified, for every
// reservation; a fixed-address attempt only ever adds an address, never
// changes the requested protection.
func WithOptions(protection memregion.Protection) *ProximityAllocator {
	return &ProximityAllocator{
		protection: protection,
		registry:   btree.NewG(32, registryLess),
	}
}

// Alloc allocates size bytes regardless of proximity (an unbounded window).
//
// Panics if size is 0.
func (a *ProximityAllocator) Alloc(size int) (*ProximityBox, error) {
	if size <= 0 {
		panic("proxalloc: size must be > 0")
	}
	return a.allocTwoPhase(size, 0, unboundedWindow(), true)
}

// AllocWithMargin resolves margin against origin to a window and allocates
// inside it.
//
// Panics if size is 0.
func (a *ProximityAllocator) AllocWithMargin(size int, origin uintptr, margin Margin) (*ProximityBox, error) {
	if size <= 0 {
		panic("proxalloc: size must be > 0")
	}
	return a.AllocWithRange(size, origin, margin.Window(origin))
}

// AllocWithRange allocates size bytes with a base address inside window.
//
// Panics if size is 0 or if origin does not lie inside window.
func (a *ProximityAllocator) AllocWithRange(size int, origin uintptr, window Window) (*ProximityBox, error) {
	if size <= 0 {
		panic("proxalloc: size must be > 0")
	}
	if !window.Contains(origin) {
		panic("proxalloc: origin outside window")
	}
	return a.allocTwoPhase(size, origin, window, false)
}

// Stats returns a snapshot of the allocator's pool bookkeeping.
func (a *ProximityAllocator) Stats() Stats {
	a.mu.RLock()
	poolCount := a.registry.Len()
	a.mu.RUnlock()

	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	s := a.stats
	s.PoolCount = poolCount
	return s
}

func (a *ProximityAllocator) allocTwoPhase(size int, origin uintptr, window Window, unbounded bool) (*ProximityBox, error) {
	if box := a.tryExistingPool(size, window); box != nil {
		return box, nil
	}

	p, err := a.reserveNewPool(size, origin, window, unbounded)
	if err != nil {
		return nil, err
	}

	box, ok := p.allocate(size)
	if !ok {
		// Cannot happen: the pool is empty and size <= its length.
		return nil, ErrOutOfMemory
	}
	a.admit(p)
	return box, nil
}

// tryExistingPool is phase A: reuse a pool already in the registry whose
// base address lies in window. Accepts the first suballocation it finds —
// it does not search for the "closest" pool, since every candidate in
// range already satisfies the window by construction (modulo the
// post-check below).
func (a *ProximityAllocator) tryExistingPool(size int, window Window) *ProximityBox {
	var stale []uintptr
	var found *ProximityBox
	var discarded []*ProximityBox

	a.mu.RLock()
	a.registry.AscendRange(
		registryEntry{base: window.Lo},
		registryEntry{base: window.Hi},
		func(e registryEntry) bool {
			// A pool whose last suballocation was released has already
			// unmapped its region, even while the weak pointer still
			// resolves; it is as stale as one the GC has collected.
			p := e.ref.Value()
			if p != nil {
				p.mu.Lock()
				if p.closed {
					p = nil
				}
				p.mu.Unlock()
			}
			if p == nil {
				stale = append(stale, e.base)
				return true
			}

			box, ok := p.allocate(size)
			if !ok {
				return true
			}

			// Post-check (spec §9's second open question): the pool's base
			// being in window does not imply this particular sub-range is.
			if !window.Contains(box.Base()) {
				discarded = append(discarded, box)
				return true
			}

			found = box
			return false
		},
	)
	a.mu.RUnlock()

	for _, box := range discarded {
		if box != found {
			box.Close()
		}
	}

	if len(stale) > 0 {
		a.mu.Lock()
		for _, base := range stale {
			a.registry.Delete(registryEntry{base: base})
		}
		a.mu.Unlock()

		a.statsMu.Lock()
		a.stats.PoolsReclaimed += uint64(len(stale))
		a.statsMu.Unlock()
	}

	return found
}

// reserveNewPool is phase B: map a fresh pool. For the unbounded case any
// address the OS grants is acceptable; for the bounded case the scanner is
// walked and the first candidate the OS accepts wins.
func (a *ProximityAllocator) reserveNewPool(size int, origin uintptr, window Window, unbounded bool) (*pool, error) {
	if unbounded {
		region, err := memregion.Map(size, memregion.MapOptions{Protection: a.protection})
		if err != nil {
			return nil, ErrOutOfMemory
		}
		return newPool(region), nil
	}

	it := scanner.New(origin, window)
	for {
		addr, err, ok := it.Next()
		if !ok {
			return nil, ErrOutOfMemory
		}
		if err != nil {
			return nil, &RegionFailureError{Err: err}
		}

		region, mapErr := memregion.Map(size, memregion.MapOptions{
			Protection: a.protection,
			Fixed:      true,
			FixedAddr:  addr,
		})
		if mapErr == nil {
			return newPool(region), nil
		}
		// This candidate didn't pan out (e.g. lost a race to another
		// mapper); keep walking the scanner.
	}
}

// admit records a newly created pool in the registry. A pool only becomes
// observable here, after its first suballocation has already succeeded, so
// a registry entry is never seen with zero live allocations.
func (a *ProximityAllocator) admit(p *pool) {
	a.mu.Lock()
	a.registry.ReplaceOrInsert(registryEntry{base: p.base, ref: weak.Make(p)})
	a.mu.Unlock()

	a.statsMu.Lock()
	a.stats.PoolsCreated++
	a.stats.BytesMapped += uint64(p.length)
	a.statsMu.Unlock()
}
