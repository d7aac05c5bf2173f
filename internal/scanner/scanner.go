// Package scanner implements the free-region scanner (spec component C4):
// a lazy, restartable sequence of page-aligned candidate addresses inside a
// window, produced by walking outward from an origin and asking the OS
// which ranges are already mapped.
package scanner

import (
	"errors"

	"proxalloc/internal/addrrange"
	"proxalloc/internal/memregion"
)

// QueryFunc answers "what's mapped at addr", matching memregion.Query's
// signature. Exposed as a field so tests can substitute a fake OS.
type QueryFunc func(addr uintptr) (memregion.RegionInfo, error)

func validAddresses() addrrange.Range[uintptr] {
	return addrrange.Range[uintptr]{Lo: 1, Hi: ^uintptr(0)}
}

type direction int

const (
	after direction = iota
	before
)

type sweep struct {
	dir    direction
	cursor uintptr
	done   bool
}

// FreeRegions is a forward-only cursor over candidate addresses. Call Next
// until it reports ok == false; a caller that succeeds on the first
// candidate never needs to drive it further.
type FreeRegions struct {
	window   addrrange.Range[uintptr]
	pageSize uintptr
	query    QueryFunc
	sweeps   [2]sweep
	idx      int
}

// New builds a scanner over window, starting from origin. The upward
// ("after") sweep runs to completion before the downward ("before") sweep
// starts, matching the original allocator's search order.
func New(origin uintptr, window addrrange.Range[uintptr]) *FreeRegions {
	return &FreeRegions{
		window:   window,
		pageSize: uintptr(memregion.PageSize()),
		query:    memregion.Query,
		sweeps:   [2]sweep{{dir: after, cursor: origin}, {dir: before, cursor: origin}},
	}
}

// Next returns the next candidate address. ok is false once both sweeps are
// exhausted; err is non-nil only for a region-query failure other than
// "free memory", which callers must treat as fatal for the current search.
func (f *FreeRegions) Next() (addr uintptr, err error, ok bool) {
	for f.idx < len(f.sweeps) {
		s := &f.sweeps[f.idx]
		if s.done {
			f.idx++
			continue
		}
		addr, err, ok = f.step(s)
		if ok {
			return addr, err, true
		}
		f.idx++
	}
	return 0, nil, false
}

func (f *FreeRegions) step(s *sweep) (uintptr, error, bool) {
	valid := validAddresses()
	for {
		if !valid.Contains(s.cursor) || !f.window.Contains(s.cursor) {
			s.done = true
			return 0, nil, false
		}

		region, err := f.query(s.cursor)
		if err == nil {
			if s.dir == after {
				s.cursor = region.Upper
			} else {
				s.cursor = addrrange.SubSaturating(region.Lower, f.pageSize)
			}
			continue
		}

		if errors.Is(err, memregion.ErrFreeMemory) {
			addr := s.cursor
			f.advance(s)
			return addr, nil, true
		}

		f.advance(s)
		return 0, err, true
	}
}

func (f *FreeRegions) advance(s *sweep) {
	if s.dir == after {
		s.cursor = addrrange.AddSaturating(s.cursor, f.pageSize)
	} else {
		s.cursor = addrrange.SubSaturating(s.cursor, f.pageSize)
	}
}
