package proxalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxBytesAreWritableAndIsolated(t *testing.T) {
	a := New()
	box1, err := a.Alloc(0x10)
	require.NoError(t, err)
	defer box1.Close()

	box2, err := a.Alloc(0x10)
	require.NoError(t, err)
	defer box2.Close()

	box1.Bytes()[0] = 0xAB
	box2.Bytes()[0] = 0xCD

	assert.Equal(t, byte(0xAB), box1.Bytes()[0])
	assert.Equal(t, byte(0xCD), box2.Bytes()[0])
}

func TestBoxCloseIsIdempotent(t *testing.T) {
	a := New()
	box, err := a.Alloc(0x10)
	require.NoError(t, err)

	assert.NoError(t, box.Close())
	assert.NoError(t, box.Close())
}

func TestBoxLenAndBase(t *testing.T) {
	a := New()
	box, err := a.Alloc(0x40)
	require.NoError(t, err)
	defer box.Close()

	assert.Equal(t, 0x40, box.Len())
	assert.NotZero(t, box.Base())
}
