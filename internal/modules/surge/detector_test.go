package surge

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/talentwatch/internal/domain"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// monthlyRecords creates count records for the month offset months before
// the current one (offset 0 = current month).
func monthlyRecords(agency, category string, offset, count int, station string) []domain.JobRecord {
	var out []domain.JobRecord
	base := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC).AddDate(0, -offset, 0)
	for i := 0; i < count; i++ {
		out = append(out, domain.JobRecord{
			ID:          fmt.Sprintf("%s-%s-%d-%d", agency, category, offset, i),
			Agency:      agency,
			AgencyName:  agency + " Agency",
			Category:    category,
			Grade:       "CON",
			DutyStation: station,
			PostedDate:  base.Format("2006-01-02"),
		})
	}
	return out
}

func TestDetectScenarioAnomalousSurge(t *testing.T) {
	// UNX posts 2 Health jobs/month for 5 months, then 8 in the current
	// month: baseline 2.0, multiplier 4.0, anomalous.
	var records []domain.JobRecord
	for offset := 1; offset <= 5; offset++ {
		records = append(records, monthlyRecords("UNX", "Health", offset, 2, "Geneva")...)
	}
	records = append(records, monthlyRecords("UNX", "Health", 0, 8, "Geneva")...)

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, report.Surges, 1)

	ev := report.Surges[0]
	assert.Equal(t, "UNX", ev.Agency)
	assert.Equal(t, "Health", ev.Category)
	assert.Equal(t, 8, ev.CurrentCount)
	assert.InDelta(t, 2.0, ev.BaselineAvg, 1e-9)
	assert.InDelta(t, 4.0, ev.Multiplier, 1e-9)
	assert.True(t, ev.Anomalous)
	assert.Contains(t, ev.Signal, "significant")
	assert.Contains(t, ev.Signal, "hiring increase")
	assert.Contains(t, ev.Signal, "concentrated in Geneva")
	assert.Contains(t, ev.Signal, "consultant-heavy")

	require.NotEmpty(t, ev.TopLocations)
	assert.Equal(t, "Geneva", ev.TopLocations[0].Location)
	assert.InDelta(t, 100.0, ev.TopLocations[0].Percent, 1e-9)
	assert.Equal(t, "CON", ev.DominantGrade.Grade)
}

func TestDetectNoPriorHistoryNeverSurges(t *testing.T) {
	// A pair active only this month has no baseline, regardless of volume.
	records := monthlyRecords("WFQ", "Logistics", 0, 50, "Rome")

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Empty(t, report.Surges)
	// The system trend is still produced.
	assert.Equal(t, 50, report.Trend.CurrentMonthTotal)
}

func TestDetectBelowThresholdNotFlagged(t *testing.T) {
	// Baseline 4/month, current 7: multiplier 1.75 < 2.0.
	var records []domain.JobRecord
	for offset := 1; offset <= 3; offset++ {
		records = append(records, monthlyRecords("UNX", "Health", offset, 4, "Nairobi")...)
	}
	records = append(records, monthlyRecords("UNX", "Health", 0, 7, "Nairobi")...)

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Empty(t, report.Surges)
}

func TestDetectMultiplierMonotonic(t *testing.T) {
	baseline := func() []domain.JobRecord {
		var out []domain.JobRecord
		for offset := 1; offset <= 3; offset++ {
			out = append(out, monthlyRecords("UNX", "Health", offset, 4, "Nairobi")...)
		}
		return out
	}

	prev := 0.0
	for current := 8; current <= 20; current += 4 {
		records := append(baseline(), monthlyRecords("UNX", "Health", 0, current, "Nairobi")...)
		report, err := Detect(records, DefaultOptions(), testNow)
		require.NoError(t, err)
		require.Len(t, report.Surges, 1)
		assert.GreaterOrEqual(t, report.Surges[0].Multiplier, prev)
		assert.GreaterOrEqual(t, report.Surges[0].Multiplier, SurgeThreshold)
		prev = report.Surges[0].Multiplier
	}
}

func TestDetectPopulatedMonthBaseline(t *testing.T) {
	// Months with zero postings are absent from the baseline, not zero:
	// 6 jobs in two populated months each -> baseline 6, not 2.
	var records []domain.JobRecord
	records = append(records, monthlyRecords("UNX", "Health", 5, 6, "Dakar")...)
	records = append(records, monthlyRecords("UNX", "Health", 3, 6, "Dakar")...)
	records = append(records, monthlyRecords("UNX", "Health", 0, 13, "Dakar")...)

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, report.Surges, 1)
	assert.InDelta(t, 6.0, report.Surges[0].BaselineAvg, 1e-9)
	assert.InDelta(t, 13.0/6.0, report.Surges[0].Multiplier, 1e-9)
}

func TestDetectSortedAndCapped(t *testing.T) {
	var records []domain.JobRecord
	// 25 agencies, each with a valid surge of increasing multiplier.
	for i := 0; i < 25; i++ {
		agency := fmt.Sprintf("AG%02d", i)
		for offset := 1; offset <= 2; offset++ {
			records = append(records, monthlyRecords(agency, "Health", offset, 2, "Bonn")...)
		}
		records = append(records, monthlyRecords(agency, "Health", 0, 4+i, "Bonn")...)
	}

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, report.Surges, MaxResults)
	for i := 1; i < len(report.Surges); i++ {
		assert.GreaterOrEqual(t, report.Surges[i-1].Multiplier, report.Surges[i].Multiplier)
	}
	// The strongest surge is the last agency added.
	assert.Equal(t, "AG24", report.Surges[0].Agency)
}

func TestDetectCategoryRollup(t *testing.T) {
	var records []domain.JobRecord
	for _, agency := range []string{"UNX", "WFQ"} {
		for offset := 1; offset <= 2; offset++ {
			records = append(records, monthlyRecords(agency, "Health", offset, 2, "Geneva")...)
		}
		records = append(records, monthlyRecords(agency, "Health", 0, 8, "Geneva")...)
	}

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	require.Len(t, report.Surges, 2)
	require.Len(t, report.Categories, 1)

	rollup := report.Categories[0]
	assert.Equal(t, "Health", rollup.Category)
	assert.Equal(t, 16, rollup.TotalCurrent)
	require.Len(t, rollup.Agencies, 2)
	assert.NotEmpty(t, rollup.TopLocations)
}

func TestDetectSystemTrendAlwaysComputed(t *testing.T) {
	var records []domain.JobRecord
	records = append(records, monthlyRecords("UNX", "Health", 2, 10, "Geneva")...)
	records = append(records, monthlyRecords("UNX", "Health", 1, 10, "Geneva")...)
	records = append(records, monthlyRecords("UNX", "Health", 0, 1, "Geneva")...)

	report, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Empty(t, report.Surges)
	assert.Equal(t, 1, report.Trend.CurrentMonthTotal)
	assert.InDelta(t, 10.0, report.Trend.TrailingAverage, 1e-9)
	assert.Equal(t, "down", report.Trend.Direction)
}

func TestDetectEmptyDataset(t *testing.T) {
	report, err := Detect(nil, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Empty(t, report.Surges)
	assert.Empty(t, report.Categories)
	assert.Equal(t, 0, report.Trend.CurrentMonthTotal)
}

func TestDetectInvalidConfig(t *testing.T) {
	_, err := Detect(nil, Options{LookbackMonths: -1}, testNow)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "lookback"))
}

func TestDetectDeterministic(t *testing.T) {
	var records []domain.JobRecord
	for offset := 1; offset <= 4; offset++ {
		records = append(records, monthlyRecords("UNX", "Health", offset, 3, "Geneva")...)
		records = append(records, monthlyRecords("WFQ", "Logistics", offset, 3, "Rome")...)
	}
	records = append(records, monthlyRecords("UNX", "Health", 0, 9, "Geneva")...)
	records = append(records, monthlyRecords("WFQ", "Logistics", 0, 9, "Rome")...)

	first, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	second, err := Detect(records, DefaultOptions(), testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
