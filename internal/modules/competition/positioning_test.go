package competition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/talentwatch/internal/domain"
)

func catRecord(agency, category, country string) domain.JobRecord {
	return domain.JobRecord{
		Agency:      agency,
		Category:    category,
		DutyCountry: country,
		PostedDate:  "2024-06-10",
	}
}

func TestJaccardProperties(t *testing.T) {
	a := map[string]bool{"Health": true, "Logistics": true, "Education": true}
	b := map[string]bool{"Health": true, "Protection": true}

	// Symmetric.
	assert.InDelta(t, jaccard(a, b), jaccard(b, a), 1e-9)

	// Identical sets score 100.
	assert.InDelta(t, 100.0, jaccard(a, a), 1e-9)

	// Disjoint sets score 0.
	c := map[string]bool{"Nutrition": true}
	assert.InDelta(t, 0.0, jaccard(a, c), 1e-9)

	// Empty sets score 0, not 100.
	assert.InDelta(t, 0.0, jaccard(nil, nil), 1e-9)
}

func TestJaccardScenario(t *testing.T) {
	// union=6, intersection=2 -> 33.3%.
	a := map[string]bool{"A": true, "B": true, "C": true, "D": true}
	b := map[string]bool{"A": true, "B": true, "E": true, "F": true, "G": true}
	assert.InDelta(t, 100.0*2.0/7.0, jaccard(a, b), 1e-9)

	b = map[string]bool{"A": true, "B": true, "E": true, "F": true}
	assert.InDelta(t, 100.0*2.0/6.0, jaccard(a, b), 1e-9)
}

func TestShannonDiversity(t *testing.T) {
	// Exactly one category: zero entropy.
	assert.InDelta(t, 0.0, shannonDiversity(map[string]int{"Health": 10}), 1e-9)

	// Two even categories: 1 bit.
	assert.InDelta(t, 1.0, shannonDiversity(map[string]int{"Health": 5, "Logistics": 5}), 1e-9)

	// Four even categories: 2 bits, and more spread means more entropy.
	four := shannonDiversity(map[string]int{"A": 5, "B": 5, "C": 5, "D": 5})
	assert.InDelta(t, 2.0, four, 1e-9)
	assert.Greater(t, four, shannonDiversity(map[string]int{"A": 17, "B": 1, "C": 1, "D": 1}))

	// Empty distribution short-circuits to zero.
	assert.InDelta(t, 0.0, shannonDiversity(nil), 1e-9)
}

func TestPositioningMetricsAndThreat(t *testing.T) {
	var records []domain.JobRecord
	// Your agency: 4 postings across 2 categories, 2 countries.
	records = append(records,
		catRecord("UNX", "Health", "Kenya"),
		catRecord("UNX", "Health", "Kenya"),
		catRecord("UNX", "Logistics", "Somalia"),
		catRecord("UNX", "Logistics", "Somalia"),
	)
	// Identical category mix and equal volume: high threat.
	records = append(records,
		catRecord("WFQ", "Health", "Kenya"),
		catRecord("WFQ", "Health", "Kenya"),
		catRecord("WFQ", "Logistics", "Italy"),
		catRecord("WFQ", "Logistics", "Italy"),
	)
	// Disjoint mix: low threat.
	records = append(records, catRecord("IOA", "Education", "Ghana"))

	matrix, err := Positioning(records, DefaultOptions(), "UNX", testNow)
	require.NoError(t, err)

	assert.Equal(t, "UNX", matrix.Agency)
	assert.InDelta(t, 4.0/9.0*100, matrix.Metrics.Share, 1e-9)
	assert.InDelta(t, 1.0, matrix.Metrics.CategoryDiversity, 1e-9)
	assert.Equal(t, 2, matrix.Metrics.GeographicReach)

	require.Len(t, matrix.Competitors, 2)
	assert.Equal(t, "WFQ", matrix.Competitors[0].Agency)
	assert.InDelta(t, 100.0, matrix.Competitors[0].Similarity, 1e-9)
	assert.Equal(t, "high", matrix.Competitors[0].ThreatLevel)
	assert.Equal(t, "IOA", matrix.Competitors[1].Agency)
	assert.Equal(t, "low", matrix.Competitors[1].ThreatLevel)
}

func TestPositioningRequiresAgency(t *testing.T) {
	_, err := Positioning(nil, DefaultOptions(), "", testNow)
	assert.Error(t, err)
}

func TestPositioningEmptyDataset(t *testing.T) {
	matrix, err := Positioning(nil, DefaultOptions(), "UNX", testNow)
	require.NoError(t, err)
	assert.Empty(t, matrix.Competitors)
	assert.InDelta(t, 0.0, matrix.Metrics.Share, 1e-9)
}

func TestGrowthRateGuardsZeroPrior(t *testing.T) {
	// Only recent postings: prior window empty, growth short-circuits to 0.
	records := []domain.JobRecord{catRecord("UNX", "Health", "Kenya")}
	assert.InDelta(t, 0.0, growthRate(records, "UNX", testNow), 1e-9)
}

func TestGrowthRate(t *testing.T) {
	var records []domain.JobRecord
	// Prior window (Dec 2023 - Feb 2024): 2 postings.
	records = append(records,
		domain.JobRecord{Agency: "UNX", Category: "Health", PostedDate: "2024-01-10"},
		domain.JobRecord{Agency: "UNX", Category: "Health", PostedDate: "2024-02-10"},
	)
	// Recent window (Mar - Jun 2024): 3 postings.
	records = append(records,
		domain.JobRecord{Agency: "UNX", Category: "Health", PostedDate: "2024-03-10"},
		domain.JobRecord{Agency: "UNX", Category: "Health", PostedDate: "2024-04-10"},
		domain.JobRecord{Agency: "UNX", Category: "Health", PostedDate: "2024-05-10"},
	)
	got := growthRate(records, "UNX", testNow)
	assert.InDelta(t, 50.0, got, 1e-9)
	assert.False(t, math.IsNaN(got))
}
