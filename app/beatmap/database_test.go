package beatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatmapSetAddDifficultySetsBackIndex(t *testing.T) {
	set := NewBeatmapSet("Song - Artist")
	d1 := &DatabaseBeatmap{MD5: "a", Header: HeaderFields{Artist: "Artist", Title: "Title"}}
	d2 := &DatabaseBeatmap{MD5: "b"}

	set.AddDifficulty(d1)
	set.AddDifficulty(d2)

	assert.Same(t, set, d1.Set())
	assert.Equal(t, 0, d1.setIndex)
	assert.Equal(t, 1, d2.setIndex)
}

func TestRepresentativeArtistTitleUseFirstDifficulty(t *testing.T) {
	set := NewBeatmapSet("Song - Artist")
	assert.Equal(t, "", set.RepresentativeArtist())

	set.AddDifficulty(&DatabaseBeatmap{Header: HeaderFields{Artist: "Artist", Title: "Title"}})
	set.AddDifficulty(&DatabaseBeatmap{Header: HeaderFields{Artist: "Other", Title: "Other"}})

	assert.Equal(t, "Artist", set.RepresentativeArtist())
	assert.Equal(t, "Title", set.RepresentativeTitle())
}

func TestDatabaseAddAndLookupDifficulty(t *testing.T) {
	db := NewDatabase()
	diff := &DatabaseBeatmap{MD5: "abc123"}

	db.AddDifficulty(diff)

	assert.Same(t, diff, db.Difficulty("abc123"))
	assert.Nil(t, db.Difficulty("missing"))
}

func TestDatabaseApplyBatchResultUpdatesAllThreeTables(t *testing.T) {
	db := NewDatabase()
	diff := &DatabaseBeatmap{MD5: "abc123"}
	db.AddDifficulty(diff)

	var table [54]float64
	table[0] = 4.2

	db.ApplyBatchResult("abc123", table, 4.2, 5, 3, 1, 120000, 120, 180, 150)

	assert.Equal(t, 4.2, diff.StarRatingNoMod)
	assert.Equal(t, table, diff.StarRatingTable)
	assert.Equal(t, 5, diff.NumCircles)
	assert.Equal(t, int64(120000), diff.LengthMS)

	stored, ok := db.StarRatingTable("abc123")
	require.True(t, ok)
	assert.Equal(t, table, stored)

	override, ok := db.PeppyOverrideFor("abc123")
	require.True(t, ok)
	assert.Equal(t, 5, override.NumCircles)
	assert.Equal(t, 150.0, override.MostCommonBPM)
}

func TestDatabaseApplyBatchResultIgnoresZeroFieldsForUnknownDifficulty(t *testing.T) {
	db := NewDatabase()

	assert.NotPanics(t, func() {
		var table [54]float64
		db.ApplyBatchResult("unknown", table, 1, 0, 0, 0, 0, 0, 0, 0)
	})

	_, ok := db.StarRatingTable("unknown")
	assert.True(t, ok)
}
