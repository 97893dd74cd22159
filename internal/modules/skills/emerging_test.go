package skills

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/talentwatch/internal/domain"
)

// emergingRecord places a posting inside either the trailing six-month
// window ("recent") or the six months before it ("prior").
func emergingRecord(id, agency, skill, window string) domain.JobRecord {
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if window == "prior" {
		date = time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC)
	}
	return domain.JobRecord{
		ID:         id,
		Agency:     agency,
		Category:   "Operations",
		Grade:      "P-3",
		Title:      "Officer",
		Skills:     []string{skill},
		PostedDate: date.Format("2006-01-02"),
	}
}

func TestDetectEmergingBrandNewSkill(t *testing.T) {
	var records []domain.JobRecord
	// GIS never appeared in the prior window, then 15 postings across six
	// agencies in the recent one.
	for i := 0; i < 15; i++ {
		agency := fmt.Sprintf("AG%d", i%6)
		records = append(records, emergingRecord(fmt.Sprintf("g%d", i), agency, "GIS", "recent"))
	}

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, emerging, 1)

	e := emerging[0]
	assert.Equal(t, "GIS", e.Skill)
	assert.Equal(t, 15, e.RecentCount)
	assert.Equal(t, 0, e.PriorCount)
	assert.InDelta(t, NewSkillGrowthRate, e.GrowthRate, 1e-9)
	assert.Len(t, e.Agencies, 6)
	assert.True(t, e.WillGoMainstream)
	assert.Equal(t, "6 months", e.EstimatedTimeline)
	// 0.4*1 + 0.3*(15/50) + 0.3*(6/10), scaled to 100.
	assert.InDelta(t, 67.0, e.Confidence, 1e-9)
}

func TestDetectEmergingGrowthFactorCutoff(t *testing.T) {
	var records []domain.JobRecord
	add := func(skill string, prior, recent int) {
		for i := 0; i < prior; i++ {
			records = append(records, emergingRecord(fmt.Sprintf("%s-p%d", skill, i), "AG1", skill, "prior"))
		}
		for i := 0; i < recent; i++ {
			records = append(records, emergingRecord(fmt.Sprintf("%s-r%d", skill, i), "AG1", skill, "recent"))
		}
	}
	add("Slow", 4, 5) // 1.25x: below the factor, excluded
	add("Fast", 4, 6) // 1.5x: included at 50% growth

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, emerging, 1)

	e := emerging[0]
	assert.Equal(t, "Fast", e.Skill)
	assert.InDelta(t, 50.0, e.GrowthRate, 1e-9)
	assert.False(t, e.WillGoMainstream)
	assert.Equal(t, "18 months", e.EstimatedTimeline)
}

func TestDetectEmergingSkipsSkillsAbsentRecently(t *testing.T) {
	records := []domain.JobRecord{
		emergingRecord("a", "AG1", "Faded", "prior"),
	}

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Empty(t, emerging)
}

func TestDetectEmergingSortedAndCapped(t *testing.T) {
	var records []domain.JobRecord
	// Twelve brand-new skills with distinct recent counts: all tie at the
	// new-skill growth rate, so recent count orders them.
	for s := 0; s < 12; s++ {
		for i := 0; i <= s; i++ {
			records = append(records, emergingRecord(fmt.Sprintf("s%d-%d", s, i), "AG1", fmt.Sprintf("Skill%02d", s), "recent"))
		}
	}

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, emerging, MaxEmergingResults)
	assert.Equal(t, "Skill11", emerging[0].Skill)
	assert.Equal(t, 12, emerging[0].RecentCount)
	for i := 1; i < len(emerging); i++ {
		assert.GreaterOrEqual(t, emerging[i-1].RecentCount, emerging[i].RecentCount)
	}
}

func TestDetectEmergingRelatedSkills(t *testing.T) {
	var records []domain.JobRecord
	for i := 0; i < 8; i++ {
		rec := emergingRecord(fmt.Sprintf("g%d", i), "AG1", "GIS", "recent")
		rec.Skills = append(rec.Skills, "Remote Sensing")
		records = append(records, rec)
	}

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	// GIS and Remote Sensing both emerge; each lists the other as related.
	require.Len(t, emerging, 2)
	assert.Equal(t, []string{"remote sensing"}, emerging[0].RelatedSkills)
	assert.Equal(t, []string{"gis"}, emerging[1].RelatedSkills)
}

func TestDetectEmergingFirstSeenLabel(t *testing.T) {
	records := []domain.JobRecord{
		emergingRecord("a", "AG1", "GIS", "prior"),
		emergingRecord("b", "AG1", "GIS", "recent"),
		emergingRecord("c", "AG1", "GIS", "recent"),
	}

	emerging, err := DetectEmerging(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, emerging, 1)
	assert.Equal(t, "2023-09", emerging[0].FirstSeen)
	assert.Equal(t, 1, emerging[0].PriorCount)
	assert.InDelta(t, 100.0, emerging[0].GrowthRate, 1e-9)
	assert.Equal(t, "18 months", emerging[0].EstimatedTimeline)
}
