package periods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/talentwatch/internal/domain"
)

func record(id, date string) domain.JobRecord {
	return domain.JobRecord{ID: id, Agency: "UNX", Category: "Health", PostedDate: date}
}

func TestBuildMonthlySnapshots(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []domain.JobRecord{
		record("a", "2024-06-01"),
		record("b", "2024-06-30"),
		record("c", "2024-05-10"),
		record("d", "2024-04-01"),
		record("e", "2024-03-31"),
		record("f", "2023-12-31"), // Before the window
		record("g", "garbage"),    // Unparseable: silently omitted
	}

	snaps := Build(records, GranularityMonth, 6, now)
	require.Len(t, snaps, 6)

	assert.Equal(t, "2024-01", snaps[0].Label)
	assert.Equal(t, "2024-06", snaps[5].Label)

	assert.Equal(t, 0, snaps[0].Count())
	assert.Equal(t, 1, snaps[2].Count()) // March
	assert.Equal(t, 1, snaps[3].Count()) // April
	assert.Equal(t, 1, snaps[4].Count()) // May
	assert.Equal(t, 2, snaps[5].Count()) // June

	// Boundaries are [start, end).
	assert.True(t, snaps[5].Start.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, snaps[5].End.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildQuarterlySnapshots(t *testing.T) {
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	records := []domain.JobRecord{
		record("a", "2024-01-15"), // Q1
		record("b", "2024-03-31"), // Q1
		record("c", "2024-04-01"), // Q2
		record("d", "2023-11-20"), // Q4 2023
	}

	snaps := Build(records, GranularityQuarter, 3, now)
	require.Len(t, snaps, 3)

	assert.Equal(t, "2023-Q4", snaps[0].Label)
	assert.Equal(t, "2024-Q1", snaps[1].Label)
	assert.Equal(t, "2024-Q2", snaps[2].Label)

	assert.Equal(t, 1, snaps[0].Count())
	assert.Equal(t, 2, snaps[1].Count())
	assert.Equal(t, 1, snaps[2].Count())
}

func TestBuildRejectsBadInputs(t *testing.T) {
	now := time.Now()
	assert.Nil(t, Build(nil, GranularityMonth, 0, now))
	assert.Nil(t, Build(nil, GranularityMonth, -1, now))
	assert.Nil(t, Build(nil, Granularity("weekly"), 6, now))
}

func TestBuildEmptyDataset(t *testing.T) {
	snaps := Build(nil, GranularityMonth, 3, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, snaps, 3)
	for _, s := range snaps {
		assert.Equal(t, 0, s.Count())
	}
}

func TestInRange(t *testing.T) {
	records := []domain.JobRecord{
		record("a", "2024-06-01"),
		record("b", "2024-06-30"),
		record("c", "2024-07-01"),
		record("d", "bad-date"),
	}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	got := InRange(records, start, end)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC)
	assert.True(t, MonthStart(now, 0).Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, MonthStart(now, -3).Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, MonthStart(now, 1).Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.JobRecord{
		record("a", "2024-06-01"),
		record("b", "2024-05-02"),
	}
	first := Build(records, GranularityMonth, 6, now)
	second := Build(records, GranularityMonth, 6, now)
	assert.Equal(t, first, second)
}
