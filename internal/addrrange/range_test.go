package addrrange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeContains(t *testing.T) {
	r := Range[uintptr]{Lo: 10, Hi: 20}

	assert.True(t, r.Contains(10), "lower bound is inclusive")
	assert.False(t, r.Contains(20), "upper bound is exclusive")
	assert.True(t, r.Contains(15))
	assert.False(t, r.Contains(9))
	assert.False(t, r.Contains(200))
}

func TestRangeEmpty(t *testing.T) {
	assert.True(t, Range[int]{Lo: 5, Hi: 5}.Empty())
	assert.True(t, Range[int]{Lo: 5, Hi: 3}.Empty())
	assert.False(t, Range[int]{Lo: 5, Hi: 6}.Empty())
}

func TestAddSaturating(t *testing.T) {
	assert.Equal(t, uint64(30), AddSaturating(uint64(10), uint64(20)))
	assert.Equal(t, uint64(math.MaxUint64), AddSaturating(uint64(math.MaxUint64-5), uint64(10)))
}

func TestSubSaturating(t *testing.T) {
	assert.Equal(t, uint64(10), SubSaturating(uint64(30), uint64(20)))
	assert.Equal(t, uint64(0), SubSaturating(uint64(5), uint64(20)))
}
