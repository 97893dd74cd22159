package competition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/talentwatch/internal/domain"
)

func TestWarZonesIntensityBoundedAndLeader(t *testing.T) {
	var records []domain.JobRecord
	// 25 agencies in one category: 0.5*25 + 100*1.0 far exceeds the cap.
	for i := 0; i < 25; i++ {
		agency := fmt.Sprintf("AG%02d", i)
		records = append(records, postings(agency, "Health", 0, 1)...)
	}
	records = append(records, postings("AG00", "Health", 0, 4)...)

	zones, err := WarZones(records, DefaultOptions(), "AG01", testNow)
	require.NoError(t, err)
	require.Len(t, zones, 1)

	zone := zones[0]
	assert.InDelta(t, IntensityCap, zone.Intensity, 1e-9)
	assert.Equal(t, "AG00", zone.Leader)
	assert.InDelta(t, 5.0/29.0*100, zone.LeaderShare, 1e-9)
	assert.Equal(t, 2, zone.YourRank)
}

func TestWarZonesEntrantsAndExits(t *testing.T) {
	var records []domain.JobRecord
	// Active in both windows.
	records = append(records, postings("UNX", "Health", 1, 2)...)
	records = append(records, postings("UNX", "Health", 4, 2)...)
	// Entrant: recent window only.
	records = append(records, postings("NEWB", "Health", 1, 2)...)
	// Exit: prior window only.
	records = append(records, postings("GONE", "Health", 4, 2)...)

	zones, err := WarZones(records, DefaultOptions(), "UNX", testNow)
	require.NoError(t, err)
	require.Len(t, zones, 1)

	assert.Equal(t, []string{"NEWB"}, zones[0].RecentEntrants)
	assert.Equal(t, []string{"GONE"}, zones[0].RecentExits)
}

func TestWarZoneTrend(t *testing.T) {
	assert.Equal(t, "gaining", categoryTrend(5, 2)) // 5 > 1.2*2
	assert.Equal(t, "losing", categoryTrend(1, 2))  // 1 < 0.8*2
	assert.Equal(t, "stable", categoryTrend(2, 2))
	assert.Equal(t, "stable", categoryTrend(0, 0))  // Both windows empty
	assert.Equal(t, "gaining", categoryTrend(3, 0)) // New activity with no prior
	assert.Equal(t, "losing", categoryTrend(0, 3))
}

func TestRecommendDecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		share     float64
		trend     string
		want      string
	}{
		{"contested weak losing", 8, 5, "losing", "exit"},
		{"contested small gaining", 8, 12, "gaining", "attack"},
		{"strong losing", 6, 25, "losing", "defend"},
		{"strong holding", 6, 25, "stable", "maintain"},
		{"quiet marginal", 3, 2, "stable", "exit"},
		{"middling", 6, 12, "stable", "maintain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommend(tt.intensity, tt.share, tt.trend))
		})
	}
}

func TestWarZonesEmptyDataset(t *testing.T) {
	zones, err := WarZones(nil, DefaultOptions(), "UNX", testNow)
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestWarZonesSortedByIntensity(t *testing.T) {
	var records []domain.JobRecord
	// Health: many agencies; Education: one.
	for i := 0; i < 8; i++ {
		records = append(records, postings(fmt.Sprintf("AG%02d", i), "Health", 0, 2)...)
	}
	records = append(records, postings("AG00", "Education", 0, 1)...)

	zones, err := WarZones(records, DefaultOptions(), "AG00", testNow)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "Health", zones[0].Category)
	assert.GreaterOrEqual(t, zones[0].Intensity, zones[1].Intensity)
}

func TestWarZonesTopCategoriesCutoff(t *testing.T) {
	var records []domain.JobRecord
	for i := 0; i < 6; i++ {
		records = append(records, postings("UNX", fmt.Sprintf("Cat%d", i), 0, i+1)...)
	}

	opts := DefaultOptions()
	opts.TopCategories = 3
	zones, err := WarZones(records, opts, "UNX", testNow)
	require.NoError(t, err)
	assert.Len(t, zones, 3)
}
