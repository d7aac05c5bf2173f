package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxalloc/internal/addrrange"
	"proxalloc/internal/memregion"
)

const pageSize = 0x1000

// fakeMap models a fixed set of mapped [Lower, Upper) ranges; any address
// outside them is free memory.
type fakeMap []memregion.RegionInfo

func (m fakeMap) query(addr uintptr) (memregion.RegionInfo, error) {
	for _, r := range m {
		if addr >= r.Lower && addr < r.Upper {
			return r, nil
		}
	}
	return memregion.RegionInfo{}, memregion.ErrFreeMemory
}

func newTestScanner(origin uintptr, window addrrange.Range[uintptr], query QueryFunc) *FreeRegions {
	return &FreeRegions{
		window:   window,
		pageSize: pageSize,
		query:    query,
		sweeps:   [2]sweep{{dir: after, cursor: origin}, {dir: before, cursor: origin}},
	}
}

func TestScannerReturnsOriginWhenFree(t *testing.T) {
	origin := uintptr(0x10000)
	window := addrrange.Range[uintptr]{Lo: 0, Hi: ^uintptr(0)}
	s := newTestScanner(origin, window, fakeMap(nil).query)

	addr, err, ok := s.Next()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, origin, addr)
}

func TestScannerSkipsMappedRegionThenReturnsNext(t *testing.T) {
	origin := uintptr(0x10000)
	mapped := fakeMap{{Lower: origin, Upper: origin + pageSize}}
	window := addrrange.Range[uintptr]{Lo: 0, Hi: ^uintptr(0)}
	s := newTestScanner(origin, window, mapped.query)

	addr, err, ok := s.Next()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, origin+pageSize, addr, "scanner should have hopped over the mapped region")
}

func TestScannerUpwardSweepExhaustsBeforeDownward(t *testing.T) {
	origin := uintptr(0x10000)
	window := addrrange.Range[uintptr]{Lo: origin - pageSize, Hi: origin + pageSize}
	mapped := fakeMap{{Lower: origin, Upper: origin + pageSize}}
	s := newTestScanner(origin, window, mapped.query)

	addr, err, ok := s.Next()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, origin-pageSize, addr, "upward sweep has no room left in window, downward sweep yields origin-pageSize")

	_, _, ok = s.Next()
	assert.False(t, ok, "window is exhausted")
}

func TestScannerPropagatesQueryError(t *testing.T) {
	boom := errors.New("boom")
	origin := uintptr(0x10000)
	window := addrrange.Range[uintptr]{Lo: 0, Hi: ^uintptr(0)}
	s := newTestScanner(origin, window, func(uintptr) (memregion.RegionInfo, error) {
		return memregion.RegionInfo{}, boom
	})

	_, err, ok := s.Next()
	require.True(t, ok, "a non-FreeMemory query error still yields a result slot carrying the error")
	assert.ErrorIs(t, err, boom)
}

func TestScannerRespectsWindowBounds(t *testing.T) {
	origin := uintptr(0x10000)
	window := addrrange.Range[uintptr]{Lo: origin, Hi: origin + 1}
	mapped := fakeMap{{Lower: origin, Upper: origin + pageSize}}
	s := newTestScanner(origin, window, mapped.query)

	_, _, ok := s.Next()
	assert.False(t, ok, "origin is mapped and the window has no room to search further")
}
