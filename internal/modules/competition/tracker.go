// Package competition builds per-agency market-share timelines, a pairwise
// positioning matrix, and category-level talent-war-zone assessments.
package competition

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

const (
	// WeeksPerPeriod approximates a calendar period as four weeks when
	// deriving hiring velocity.
	WeeksPerPeriod = 4.0
	// MomentumBand is the velocity change (fraction) separating steady
	// from accelerating/decelerating.
	MomentumBand = 0.20
	// MaxMovesPerAgency caps reported strategic moves, most recent kept.
	MaxMovesPerAgency = 5
	// HighImpactCategories is the number of simultaneous category entries
	// above which a move counts as high impact.
	HighImpactCategories = 2
)

// Options configures the tracker. Zero values are rejected by Validate.
type Options struct {
	Granularity   periods.Granularity
	Lookback      int // Number of periods in the timeline window
	TopAgencies   int // How many agencies (by total volume) get timelines
	TopCategories int // How many category war zones are reported
}

// DefaultOptions returns the standard tracker configuration.
func DefaultOptions() Options {
	return Options{
		Granularity:   periods.GranularityMonth,
		Lookback:      6,
		TopAgencies:   10,
		TopCategories: 10,
	}
}

// Validate rejects structurally invalid configuration up front.
func (o Options) Validate() error {
	if !o.Granularity.Valid() {
		return fmt.Errorf("competition: invalid granularity %q", o.Granularity)
	}
	if o.Lookback <= 0 {
		return fmt.Errorf("competition: lookback must be positive, got %d", o.Lookback)
	}
	if o.TopAgencies <= 0 {
		return fmt.Errorf("competition: top agencies must be positive, got %d", o.TopAgencies)
	}
	if o.TopCategories <= 0 {
		return fmt.Errorf("competition: top categories must be positive, got %d", o.TopCategories)
	}
	return nil
}

// Timelines computes per-period market share, rank, velocity, and momentum
// for the top agencies by total volume over the lookback window.
func Timelines(records []domain.JobRecord, opts Options, now time.Time) ([]AgencyTimeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snaps := periods.Build(records, opts.Granularity, opts.Lookback, now)
	top := topAgencies(snaps, opts.TopAgencies)

	// Per-snapshot agency counts and ranks, computed once.
	type periodView struct {
		total  int
		counts map[string]int
		ranks  map[string]int
	}
	views := make([]periodView, len(snaps))
	for i := range snaps {
		counts := make(map[string]int)
		for _, rec := range snaps[i].Records {
			counts[rec.Agency]++
		}
		views[i] = periodView{total: snaps[i].Count(), counts: counts, ranks: rankAgencies(counts)}
	}

	timelines := make([]AgencyTimeline, 0, len(top))
	for _, ag := range top {
		tl := AgencyTimeline{Agency: ag.name, AgencyName: ag.longName, Total: ag.total}
		prevVelocity := 0.0
		for i := range snaps {
			count := views[i].counts[ag.name]
			point := TimelinePoint{
				Period:   snaps[i].Label,
				Count:    count,
				Velocity: float64(count) / WeeksPerPeriod,
				Rank:     views[i].ranks[ag.name],
				Momentum: "steady",
			}
			if views[i].total > 0 {
				point.Share = float64(count) / float64(views[i].total) * 100
			}
			// A previous velocity of 0 always yields steady: no divide-by-zero noise.
			if i > 0 && prevVelocity > 0 {
				change := (point.Velocity - prevVelocity) / prevVelocity
				if change > MomentumBand {
					point.Momentum = "accelerating"
				} else if change < -MomentumBand {
					point.Momentum = "decelerating"
				}
			}
			prevVelocity = point.Velocity
			tl.Points = append(tl.Points, point)
		}
		timelines = append(timelines, tl)
	}
	return timelines, nil
}

// StrategicMoves diffs each agency's category set between consecutive
// periods; categories appearing only in the later period are "new category"
// moves. At most MaxMovesPerAgency most recent moves are kept per agency.
func StrategicMoves(records []domain.JobRecord, opts Options, now time.Time) ([]StrategicMove, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snaps := periods.Build(records, opts.Granularity, opts.Lookback, now)
	top := topAgencies(snaps, opts.TopAgencies)

	categorySets := make([]map[string]map[string]bool, len(snaps)) // period -> agency -> categories
	for i := range snaps {
		sets := make(map[string]map[string]bool)
		for _, rec := range snaps[i].Records {
			if sets[rec.Agency] == nil {
				sets[rec.Agency] = make(map[string]bool)
			}
			sets[rec.Agency][rec.Category] = true
		}
		categorySets[i] = sets
	}

	var moves []StrategicMove
	for _, ag := range top {
		var agencyMoves []StrategicMove
		for i := 1; i < len(snaps); i++ {
			prev := categorySets[i-1][ag.name]
			curr := categorySets[i][ag.name]
			// An agency silent in the earlier period gives no baseline to
			// diff against; skip rather than announce every category as new.
			if len(prev) == 0 {
				continue
			}
			var added []string
			for cat := range curr {
				if !prev[cat] {
					added = append(added, cat)
				}
			}
			if len(added) == 0 {
				continue
			}
			sort.Strings(added)
			agencyMoves = append(agencyMoves, StrategicMove{
				Agency:     ag.name,
				Period:     snaps[i].Label,
				Type:       "new_category",
				Categories: added,
				Impact:     moveImpact(len(added)),
			})
		}
		if len(agencyMoves) > MaxMovesPerAgency {
			agencyMoves = agencyMoves[len(agencyMoves)-MaxMovesPerAgency:]
		}
		moves = append(moves, agencyMoves...)
	}
	return moves, nil
}

func moveImpact(added int) string {
	switch {
	case added > HighImpactCategories:
		return "high"
	case added == HighImpactCategories:
		return "medium"
	default:
		return "low"
	}
}

// agencyVolume carries total-volume ranking data for one agency.
type agencyVolume struct {
	name     string
	longName string
	total    int
}

// topAgencies ranks agencies by total volume across all snapshots.
// Ties break alphabetically so results are deterministic.
func topAgencies(snaps []periods.Snapshot, limit int) []agencyVolume {
	totals := make(map[string]*agencyVolume)
	for i := range snaps {
		for _, rec := range snaps[i].Records {
			av, exists := totals[rec.Agency]
			if !exists {
				av = &agencyVolume{name: rec.Agency, longName: rec.AgencyName}
				totals[rec.Agency] = av
			}
			av.total++
		}
	}
	out := make([]agencyVolume, 0, len(totals))
	for _, av := range totals {
		out = append(out, *av)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total > out[j].total
		}
		return out[i].name < out[j].name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// rankAgencies assigns 1-based ranks by period volume descending.
// Ties break alphabetically for determinism.
func rankAgencies(counts map[string]int) map[string]int {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	ranks := make(map[string]int, len(names))
	for i, name := range names {
		ranks[name] = i + 1
	}
	return ranks
}
