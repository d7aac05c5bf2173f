package proxalloc

import (
	"reflect"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxalloc/internal/memregion"
)

const testDistance = 0x1_000_000

func testMarginTarget() {}

func TestZeroSizePanics(t *testing.T) {
	a := New()
	assert.Panics(t, func() { a.Alloc(0) })
}

func TestOriginOutsideWindowPanics(t *testing.T) {
	a := New()
	window := NewWindow(0x1000, 0x2000)
	assert.Panics(t, func() { a.AllocWithRange(0x10, 0x5000, window) })
}

func TestAllocWithMarginSatisfiesDistance(t *testing.T) {
	a := New()
	// Stands in for the original test's `test_margin as *const ()`: the
	// address of a function in this binary's own text segment, a realistic
	// origin for a proximity request.
	origin := reflect.ValueOf(testMarginTarget).Pointer()

	box, err := a.AllocWithMargin(0x100, origin, Distance(testDistance))
	require.NoError(t, err)
	defer box.Close()

	distance := box.Base() - origin
	if box.Base() < origin {
		distance = origin - box.Base()
	}
	assert.LessOrEqual(t, distance, uintptr(testDistance))
}

func TestAllocReusesPoolWithinAPage(t *testing.T) {
	a := New()
	assert.Equal(t, 0, a.poolCountForTest())

	box1, err := a.Alloc(0x100)
	require.NoError(t, err)
	assert.Equal(t, 1, a.poolCountForTest())

	box2, err := a.Alloc(0x100)
	require.NoError(t, err)
	assert.Equal(t, 1, a.poolCountForTest(), "second small allocation should reuse the first pool")

	box3, err := a.Alloc(memregion.PageSize())
	require.NoError(t, err)
	assert.Equal(t, 2, a.poolCountForTest(), "an allocation too big for the first pool reserves a second one")

	box1.Close()
	box2.Close()
	box3.Close()
}

func TestAllocAfterPoolsDrainReclaimsAndReserves(t *testing.T) {
	a := New()

	box1, err := a.Alloc(0x100)
	require.NoError(t, err)
	box2, err := a.Alloc(0x100)
	require.NoError(t, err)
	box3, err := a.Alloc(memregion.PageSize())
	require.NoError(t, err)
	require.Equal(t, 2, a.poolCountForTest())

	box1.Close()
	box2.Close()
	box3.Close()
	box1, box2, box3 = nil, nil, nil
	runtime.GC()

	box4, err := a.Alloc(0x100)
	require.NoError(t, err)
	defer box4.Close()

	assert.Equal(t, 1, a.poolCountForTest(), "both drained pools should be reclaimed and replaced with one fresh pool")
}

func TestAllocIsExecutableByDefault(t *testing.T) {
	a := New()
	box, err := a.Alloc(0x10)
	require.NoError(t, err)
	defer box.Close()

	assert.Equal(t, memregion.Read|memregion.Write|memregion.Exec, a.protection)
}

func TestStatsTracksPoolLifecycle(t *testing.T) {
	a := New()
	box, err := a.Alloc(0x100)
	require.NoError(t, err)

	stats := a.Stats()
	assert.Equal(t, uint64(1), stats.PoolsCreated)
	assert.Equal(t, 1, stats.PoolCount)

	box.Close()
	box = nil
	runtime.GC()
	_, err = a.Alloc(0x100)
	require.NoError(t, err)

	stats = a.Stats()
	assert.GreaterOrEqual(t, stats.PoolsReclaimed, uint64(1))
}

// poolCountForTest exposes the registry size to tests in this package
// without widening the public API.
func (a *ProximityAllocator) poolCountForTest() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registry.Len()
}
