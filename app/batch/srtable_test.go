package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedIndexExactMatch(t *testing.T) {
	idx, ok := speedIndex(1.0)
	require.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestSpeedIndexNearestMatch(t *testing.T) {
	idx, ok := speedIndex(1.02)
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	idx, ok = speedIndex(0.76)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSpeedIndexNeverFails(t *testing.T) {
	_, ok := speedIndex(100)
	assert.True(t, ok)
}

func TestLookupReturnsStoredCell(t *testing.T) {
	var table SRTable
	table[NoMod][3][0] = 5.0

	v, ok := table.Lookup(NoMod, 1.0, false)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestFlattenPreservesVariantMajorOrdering(t *testing.T) {
	var table SRTable

	table[NoMod][0][0] = 1
	table[NoMod][0][1] = 2
	table[HardRock][0][0] = 3

	flat := table.Flatten()

	assert.Equal(t, 1.0, flat[0])
	assert.Equal(t, 2.0, flat[1])
	assert.Equal(t, 3.0, flat[tableSpeedCount*2])
}

func TestFlattenLengthMatches54Cells(t *testing.T) {
	var table SRTable
	flat := table.Flatten()

	assert.Len(t, flat, 54)
}
