package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neomodnet/neomod-sub003/framework/math/vector"
)

func circleAt(t int64, x, y float64) *DiffObject {
	return &DiffObject{
		Kind:        KindCircle,
		BaseTime:    t,
		BaseEndTime: t,
		Time:        float64(t),
		EndTime:     float64(t),
		OriginalPos: vector.NewVec2d(x, y),
		CurrentPos:  vector.NewVec2d(x, y),
	}
}

func TestResolveStackingModernStacksOverlappingCircles(t *testing.T) {
	objs := []*DiffObject{
		circleAt(0, 100, 100),
		circleAt(50, 100, 100),
		circleAt(100, 100, 100),
	}

	ResolveStacking(objs, 32, 1000, 0.7, 14)

	assert.NotEqual(t, objs[0].CurrentPos, objs[1].CurrentPos)
	assert.NotEqual(t, objs[1].CurrentPos, objs[2].CurrentPos)
}

func TestResolveStackingLeavesDistantCirclesUnstacked(t *testing.T) {
	objs := []*DiffObject{
		circleAt(0, 0, 0),
		circleAt(1000, 500, 500),
	}

	ResolveStacking(objs, 32, 500, 0.7, 14)

	assert.Equal(t, objs[0].OriginalPos, objs[0].CurrentPos)
	assert.Equal(t, objs[1].OriginalPos, objs[1].CurrentPos)
}

func TestResolveStackingEmptyIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		ResolveStacking(nil, 32, 500, 0.7, 14)
	})
}

func TestResolveStackingLegacyBranchRunsForOldVersions(t *testing.T) {
	objs := []*DiffObject{
		circleAt(0, 100, 100),
		circleAt(50, 100, 100),
	}

	assert.NotPanics(t, func() {
		ResolveStacking(objs, 32, 1000, 0.7, 5)
	})

	assert.NotEqual(t, objs[0].CurrentPos, objs[1].CurrentPos)
}

func TestApplyStackOffsetsLeavesZeroOffsetObjectsAtOriginal(t *testing.T) {
	objs := []*DiffObject{circleAt(0, 10, 10)}

	applyStackOffsets(objs, 32)

	assert.Equal(t, objs[0].OriginalPos, objs[0].CurrentPos)
}

func TestApplyStackOffsetsTranslatesStackedObjectsUpLeft(t *testing.T) {
	o := circleAt(0, 10, 10)
	o.StackOffset = 2

	applyStackOffsets([]*DiffObject{o}, 32)

	assert.Less(t, o.CurrentPos.X, o.OriginalPos.X)
	assert.Less(t, o.CurrentPos.Y, o.OriginalPos.Y)
}
