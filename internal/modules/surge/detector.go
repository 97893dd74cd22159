// Package surge detects abnormal hiring velocity per (agency, category) pair.
// A spike against the trailing baseline may signal new funding, a programme
// launch, or an emergency response.
package surge

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

// Detection thresholds. These are dashboard heuristics, not calibrated
// statistical models; they match the thresholds the product has always used.
const (
	// SurgeThreshold is the minimum current/baseline multiplier to flag a surge.
	SurgeThreshold = 2.0
	// AnomalyThreshold marks a surge as anomalous.
	AnomalyThreshold = 3.0
	// MinCurrentMonthJobs is the minimum current-month volume worth judging.
	MinCurrentMonthJobs = 3
	// MinBaselineMonths is the minimum number of populated history months.
	MinBaselineMonths = 2
	// MinBaselineJobs is the minimum total prior-window volume; thinner
	// histories are noise.
	MinBaselineJobs = 3.0
	// MaxResults caps the reported surge list.
	MaxResults = 20
	// MaxTopLocations caps the per-event location breakdown.
	MaxTopLocations = 3

	// Narrative tiers and cutoffs.
	majorMultiplier       = 5.0
	significantMultiplier = 3.0
	concentratedShare     = 60.0 // Percent in a single location to call it out by name
	distributedLocations  = 3
	trendUpMultiplier     = 1.1
	trendDownMultiplier   = 0.9
)

// Options configures a detection run.
type Options struct {
	LookbackMonths int // Number of prior months forming the baseline window
}

// DefaultOptions returns the standard detection configuration.
func DefaultOptions() Options {
	return Options{LookbackMonths: 6}
}

// Validate rejects structurally invalid configuration before any computation.
func (o Options) Validate() error {
	if o.LookbackMonths <= 0 {
		return fmt.Errorf("surge: lookback months must be positive, got %d", o.LookbackMonths)
	}
	return nil
}

// groupKey identifies one (agency, category) accumulator. A composite key
// type rather than a concatenated string, so distinct pairs cannot collide.
type groupKey struct {
	agency   string
	category string
}

type group struct {
	key         groupKey
	agencyName  string
	current     []domain.JobRecord // Current-month records
	monthCounts map[int]int        // Month offset (1 = last month) -> count
}

// Detect runs surge detection over records with now as the reference instant.
// The system-wide trend is always computed, even when no group qualifies.
// Records with unparseable posting dates are excluded from month bucketing.
func Detect(records []domain.JobRecord, opts Options, now time.Time) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}

	currentStart := periods.MonthStart(now, 0)
	currentEnd := periods.MonthStart(now, 1)
	windowStart := periods.MonthStart(now, -opts.LookbackMonths)

	// Group records by (agency, category), preserving first-appearance order
	// so that multiplier ties break deterministically.
	groupsByKey := make(map[groupKey]*group)
	var order []groupKey
	for _, rec := range records {
		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		if posted.Before(windowStart) || !posted.Before(currentEnd) {
			continue
		}
		key := groupKey{agency: rec.Agency, category: rec.Category}
		g, exists := groupsByKey[key]
		if !exists {
			g = &group{key: key, agencyName: rec.AgencyName, monthCounts: make(map[int]int)}
			groupsByKey[key] = g
			order = append(order, key)
		}
		if !posted.Before(currentStart) {
			g.current = append(g.current, rec)
		} else {
			offset := monthsBetween(posted, currentStart)
			g.monthCounts[offset]++
		}
	}

	var events []Event
	for _, key := range order {
		g := groupsByKey[key]
		if ev, ok := evaluateGroup(g); ok {
			events = append(events, ev)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Multiplier > events[j].Multiplier
	})
	if len(events) > MaxResults {
		events = events[:MaxResults]
	}

	report := Report{
		Surges:     events,
		Categories: rollupCategories(events, records, currentStart, currentEnd),
		Trend:      systemTrend(records, opts.LookbackMonths, now),
	}
	if report.Surges == nil {
		report.Surges = []Event{}
	}
	return report, nil
}

// evaluateGroup applies the baseline rules to one (agency, category) group.
// Months with zero postings are absent rather than zero in the baseline:
// sparse history does not drag the average toward zero. A pair active only
// this month never surges, which avoids false positives on first postings.
func evaluateGroup(g *group) (Event, bool) {
	current := len(g.current)
	if current < MinCurrentMonthJobs {
		return Event{}, false
	}
	populated := make([]float64, 0, len(g.monthCounts))
	totalPrior := 0.0
	for _, c := range g.monthCounts {
		populated = append(populated, float64(c))
		totalPrior += float64(c)
	}
	if len(populated) < MinBaselineMonths || totalPrior < MinBaselineJobs {
		return Event{}, false
	}
	baseline := stat.Mean(populated, nil)
	if baseline <= 0 {
		return Event{}, false
	}

	multiplier := float64(current) / baseline
	if multiplier < SurgeThreshold {
		return Event{}, false
	}

	locations := topLocations(g.current, MaxTopLocations)
	grade := modalGrade(g.current)

	return Event{
		Agency:        g.key.agency,
		AgencyName:    g.agencyName,
		Category:      g.key.category,
		CurrentCount:  current,
		BaselineAvg:   baseline,
		Multiplier:    multiplier,
		Anomalous:     multiplier >= AnomalyThreshold,
		TopLocations:  locations,
		DominantGrade: grade,
		Signal:        buildSignal(g.key, multiplier, locations, grade),
	}, true
}

// buildSignal assembles the human-readable narrative from the intensity tier,
// the geographic concentration, and the grade semantics.
func buildSignal(key groupKey, multiplier float64, locations []LocationShare, grade GradeProfile) string {
	var tier string
	switch {
	case multiplier >= majorMultiplier:
		tier = "major"
	case multiplier >= significantMultiplier:
		tier = "significant"
	default:
		tier = "moderate"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s hiring increase at %s (%.1fx baseline)", tier, key.category, key.agency, multiplier)

	if len(locations) > 0 && locations[0].Percent > concentratedShare {
		fmt.Fprintf(&b, ", concentrated in %s", locations[0].Location)
	} else if len(locations) >= distributedLocations {
		fmt.Fprintf(&b, ", distributed across %d+ duty stations", len(locations))
	}

	switch domain.Seniority(grade.Seniority) {
	case domain.SeniorityConsultant:
		b.WriteString(", consultant-heavy intake")
	case domain.SenioritySenior, domain.SeniorityExecutive:
		b.WriteString(", weighted toward senior roles")
	case domain.SeniorityMid:
		b.WriteString(", mostly mid-level positions")
	}

	return b.String()
}

// topLocations ranks duty locations by count with percentage share.
func topLocations(records []domain.JobRecord, limit int) []LocationShare {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		loc := rec.Location()
		if loc == "" {
			continue
		}
		if _, seen := counts[loc]; !seen {
			order = append(order, loc)
		}
		counts[loc]++
	}
	total := len(records)
	shares := make([]LocationShare, 0, len(order))
	for _, loc := range order {
		share := LocationShare{Location: loc, Count: counts[loc]}
		if total > 0 {
			share.Percent = float64(counts[loc]) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Count > shares[j].Count })
	if len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// modalGrade finds the most common grade code and its concentration.
func modalGrade(records []domain.JobRecord) GradeProfile {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if rec.Grade == "" {
			continue
		}
		if _, seen := counts[rec.Grade]; !seen {
			order = append(order, rec.Grade)
		}
		counts[rec.Grade]++
	}
	best := ""
	bestCount := 0
	for _, g := range order {
		if counts[g] > bestCount {
			best = g
			bestCount = counts[g]
		}
	}
	if best == "" {
		return GradeProfile{Grade: "", Seniority: string(domain.SeniorityUnknown)}
	}
	return GradeProfile{
		Grade:         best,
		Seniority:     string(domain.SeniorityOf(best)),
		Concentration: float64(bestCount) / float64(len(records)) * 100,
	}
}

// rollupCategories aggregates surge events by category. Top locations for a
// rollup come from every current-month record in the category, not just the
// surging agencies.
func rollupCategories(events []Event, records []domain.JobRecord, currentStart, currentEnd time.Time) []CategoryRollup {
	byCategory := make(map[string]*CategoryRollup)
	var order []string
	for _, ev := range events {
		r, exists := byCategory[ev.Category]
		if !exists {
			r = &CategoryRollup{Category: ev.Category}
			byCategory[ev.Category] = r
			order = append(order, ev.Category)
		}
		r.TotalCurrent += ev.CurrentCount
		r.Agencies = append(r.Agencies, AgencyContribution{
			Agency:       ev.Agency,
			CurrentCount: ev.CurrentCount,
			Multiplier:   ev.Multiplier,
		})
	}

	rollups := make([]CategoryRollup, 0, len(order))
	for _, cat := range order {
		r := byCategory[cat]
		current := periods.InRange(records, currentStart, currentEnd)
		var inCategory []domain.JobRecord
		for _, rec := range current {
			if rec.Category == cat {
				inCategory = append(inCategory, rec)
			}
		}
		r.TopLocations = topLocations(inCategory, MaxTopLocations)
		rollups = append(rollups, *r)
	}
	return rollups
}

// systemTrend compares the current-month total to the trailing per-month
// average over populated prior months, across all records.
func systemTrend(records []domain.JobRecord, lookbackMonths int, now time.Time) SystemTrend {
	currentStart := periods.MonthStart(now, 0)
	currentEnd := periods.MonthStart(now, 1)
	current := len(periods.InRange(records, currentStart, currentEnd))

	var monthTotals []float64
	for i := 1; i <= lookbackMonths; i++ {
		start := periods.MonthStart(now, -i)
		end := periods.MonthStart(now, -i+1)
		if n := len(periods.InRange(records, start, end)); n > 0 {
			monthTotals = append(monthTotals, float64(n))
		}
	}

	trend := SystemTrend{CurrentMonthTotal: current, Direction: "flat"}
	if len(monthTotals) == 0 {
		return trend
	}
	trend.TrailingAverage = stat.Mean(monthTotals, nil)
	if trend.TrailingAverage > 0 {
		trend.Multiplier = float64(current) / trend.TrailingAverage
	}
	switch {
	case trend.Multiplier > trendUpMultiplier:
		trend.Direction = "up"
	case trend.Multiplier < trendDownMultiplier:
		trend.Direction = "down"
	}
	return trend
}

// monthsBetween returns how many whole calendar months t falls before
// currentStart (1 = the immediately preceding month).
func monthsBetween(t, currentStart time.Time) int {
	years := currentStart.Year() - t.Year()
	months := int(currentStart.Month()) - int(t.Month())
	return years*12 + months
}
