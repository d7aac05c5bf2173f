// Package memregion adapts the operating system's anonymous-mapping and
// virtual-memory-query primitives (spec §6's "OS-level collaborators") to a
// small platform-agnostic surface: Map, Query and PageSize. Everything
// GOOS-specific lives behind build tags in the mmap_*.go, query_*.go and
// pagesize_*.go files; callers never see a syscall.
package memregion

import "errors"

// Protection describes the access permissions requested for a mapping.
type Protection uint8

const (
	Read Protection = 1 << iota
	Write
	Exec
)

// ErrFreeMemory is returned by Query when addr falls inside an unmapped
// (free) range. It is the Go analogue of the region crate's
// region::Error::FreeMemory and is checked with errors.Is, never by type
// assertion, so platform query implementations can wrap it freely.
var ErrFreeMemory = errors.New("memregion: address is unmapped")

// RegionInfo describes the mapped range an address queried into, as a
// half-open [Lower, Upper) interval with uniform protection.
type RegionInfo struct {
	Lower, Upper uintptr
}

// MapOptions configures a single Map call. Fixed/FixedAddr correspond to
// spec §6's FixedAddress(p) map option: when Fixed is set, Map either
// returns a region based exactly at FixedAddr or fails — it never silently
// relocates.
type MapOptions struct {
	Protection Protection
	Fixed      bool
	FixedAddr  uintptr
}

// Region wraps a single OS anonymous mapping as a stable base pointer and a
// mutable byte slab (spec component C3). Safe for concurrent use: callers
// only ever touch disjoint sub-slices handed out by the suballocator on top
// of it.
type Region struct {
	base uintptr
	data []byte
}

// Map asks the OS for a fresh mapping matching opts. size is rounded up to a
// whole number of pages, since the OS maps whole pages; Len reports the
// rounded length.
func Map(size int, opts MapOptions) (*Region, error) {
	ps := pageSize()
	size = (size + ps - 1) &^ (ps - 1)

	var (
		base uintptr
		data []byte
		err  error
	)
	if opts.Fixed {
		base, data, err = mapFixed(opts.FixedAddr, size, opts.Protection)
	} else {
		base, data, err = mapAnon(size, opts.Protection)
	}
	if err != nil {
		return nil, err
	}
	return &Region{base: base, data: data}, nil
}

// Base returns the region's stable base address.
func (r *Region) Base() uintptr { return r.base }

// Len returns the region's length in bytes.
func (r *Region) Len() int { return len(r.data) }

// Bytes exposes the full mapping as a mutable byte slice.
func (r *Region) Bytes() []byte { return r.data }

// Close releases the mapping back to the OS. Called exactly once, when the
// owning pool has no suballocations left.
func (r *Region) Close() error {
	return unmap(r.base, r.data)
}

// Query asks the OS for the mapped region containing addr.
func Query(addr uintptr) (RegionInfo, error) {
	return queryRegion(addr)
}

// PageSize returns the system page size in bytes.
func PageSize() int {
	return pageSize()
}
