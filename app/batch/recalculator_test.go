package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupWorkGroupsScoresByMapNotByMods(t *testing.T) {
	scores := []ScoreWork{
		{ScoreID: 1, MapMD5: "a", Mods: ModKey{Speed: 1}},
		{ScoreID: 2, MapMD5: "a", Mods: ModKey{Speed: 1.5}},
		{ScoreID: 3, MapMD5: "b", Mods: ModKey{Speed: 1}},
	}

	items := GroupWork(scores, nil, func(md5 string) string { return md5 + ".osu" })

	byMD5 := map[string]*WorkItem{}
	for _, it := range items {
		byMD5[it.MapMD5] = it
	}

	require.Contains(t, byMD5, "a")
	require.Contains(t, byMD5, "b")
	assert.Len(t, byMD5["a"].Scores, 2)
	assert.Len(t, byMD5["b"].Scores, 1)
	assert.Equal(t, "a.osu", byMD5["a"].MapPath)
}

func TestGroupWorkMarksNeedsMapCalc(t *testing.T) {
	items := GroupWork(nil, []string{"a", "b"}, func(md5 string) string { return md5 })

	for _, it := range items {
		assert.True(t, it.NeedsMapCalc)
	}
}

func TestGroupWorkSortsScoreCarryingItemsFirst(t *testing.T) {
	scores := []ScoreWork{
		{ScoreID: 1, MapMD5: "few"},
		{ScoreID: 2, MapMD5: "many"},
		{ScoreID: 3, MapMD5: "many"},
		{ScoreID: 4, MapMD5: "many"},
	}

	items := GroupWork(scores, []string{"none"}, func(md5 string) string { return md5 })

	require.True(t, len(items) >= 2)
	assert.GreaterOrEqual(t, len(items[0].Scores), len(items[len(items)-1].Scores))
}

func TestGroupScoresByModsSeparatesDistinctTuples(t *testing.T) {
	scores := []ScoreWork{
		{ScoreID: 1, Mods: ModKey{Speed: 1}},
		{ScoreID: 2, Mods: ModKey{Speed: 1}},
		{ScoreID: 3, Mods: ModKey{Speed: 1.5}},
	}

	groups := groupScoresByMods(scores)

	assert.Len(t, groups, 2)
	assert.Len(t, groups[ModKey{Speed: 1}], 2)
	assert.Len(t, groups[ModKey{Speed: 1.5}], 1)
}

func TestWorkerCountHasFloorOfOne(t *testing.T) {
	assert.GreaterOrEqual(t, WorkerCount(0), 1)
}

func TestWorkerCountHonorsOverride(t *testing.T) {
	assert.Equal(t, 7, WorkerCount(7))
}
