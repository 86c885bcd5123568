package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
)

// Week 0 starts at the earliest relevant date, not at a calendar-week
// boundary: a Wednesday anchor stays a Wednesday anchor.
func TestBuildBuckets_AnchoredToEarliestDate(t *testing.T) {
	wednesday := date(2026, 3, 4)
	planned := []schedule.MoneyIncrement{
		{Date: wednesday, Amount: finance.FromUnits(10)},
		{Date: wednesday.AddDate(0, 0, 9), Amount: finance.FromUnits(10)},
	}

	buckets := buildBuckets(planned, nil, wednesday)
	require.Len(t, buckets, 2)
	assert.Equal(t, wednesday, buckets[0].Start)
	assert.Equal(t, wednesday.AddDate(0, 0, 6), buckets[0].End)
	assert.Equal(t, wednesday.AddDate(0, 0, 7), buckets[1].Start)
	assert.Equal(t, finance.FromUnits(10), buckets[0].PVIncrement)
	assert.Equal(t, finance.FromUnits(10), buckets[1].PVIncrement)
	assert.Equal(t, "Sem 01 (04/03/2026)", buckets[0].Label)
}

func TestBuildBuckets_NoDates(t *testing.T) {
	assert.Nil(t, buildBuckets(nil, nil, date(2026, 3, 4)))
}

// The aggregator grows the axis for increments past the last window
// instead of dropping them.
func TestAggregateActuals_ExtendsPastLastBucket(t *testing.T) {
	anchor := date(2026, 3, 2)
	buckets := makeBuckets(anchor, 1)

	out := aggregateActuals(buckets, []schedule.MoneyIncrement{
		{Date: anchor.AddDate(0, 0, 20), Amount: finance.FromUnits(75)},
	})
	require.Len(t, out, 3)
	assert.Equal(t, finance.FromUnits(75), out[2].EVIncrement)
	assert.Equal(t, 2, out[2].Index)
}

func TestAggregateActuals_EmptySeries(t *testing.T) {
	out := aggregateActuals(nil, []schedule.MoneyIncrement{
		{Date: date(2026, 3, 2), Amount: finance.FromUnits(75)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, finance.FromUnits(75), out[0].EVIncrement)
}

func TestSelectSnapshot_BaselineBeatsNewer(t *testing.T) {
	snaps := []schedule.Snapshot{
		{ID: "newer", CreatedAt: date(2026, 2, 1)},
		{ID: "base", IsBaseline: true, CreatedAt: date(2026, 1, 1)},
	}
	chosen, hasBaseline := selectSnapshot(snaps)
	require.NotNil(t, chosen)
	assert.True(t, hasBaseline)
	assert.Equal(t, "base", chosen.ID)
}

func TestSelectSnapshot_Empty(t *testing.T) {
	chosen, hasBaseline := selectSnapshot(nil)
	assert.Nil(t, chosen)
	assert.False(t, hasBaseline)
}

// bucketIndex never goes negative even for dates before the anchor.
func TestBucketIndex_ClampsBeforeAnchor(t *testing.T) {
	anchor := date(2026, 3, 2)
	assert.Equal(t, 0, bucketIndex(anchor, anchor.AddDate(0, 0, -3)))
	assert.Equal(t, 0, bucketIndex(anchor, anchor))
	assert.Equal(t, 0, bucketIndex(anchor, anchor.AddDate(0, 0, 6)))
	assert.Equal(t, 1, bucketIndex(anchor, anchor.AddDate(0, 0, 7)))
}
