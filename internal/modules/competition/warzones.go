package competition

import (
	"sort"
	"time"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

const (
	// IntensityCap bounds the war-zone competition-intensity composite.
	IntensityCap = 10.0
	// IntensityAgencyWeight and IntensityShareWeight are the composite's
	// coefficients: 0.5 per distinct agency plus 100 times the category's
	// share of all records. A bounded heuristic score, not a probability.
	IntensityAgencyWeight = 0.5
	IntensityShareWeight  = 100.0

	// Entrant/exit and trend windows, in months.
	WarZoneWindowMonths = 3

	// Trend cutoffs: gaining above 1.2x the prior window, losing below 0.8x.
	GainingRatio = 1.2
	LosingRatio  = 0.8

	// Decision-table thresholds for the strategic recommendation.
	contestedIntensity = 7.0
	quietIntensity     = 5.0
	weakShare          = 10.0
	attackShare        = 15.0
	strongShare        = 20.0
	marginalShare      = 5.0
)

// WarZones assesses every category's competitive landscape from the point of
// view of yourAgency. Categories are returned sorted by intensity descending.
func WarZones(records []domain.JobRecord, opts Options, yourAgency string, now time.Time) ([]WarZone, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	total := len(records)
	if total == 0 {
		return []WarZone{}, nil
	}

	recentStart := periods.MonthStart(now, -WarZoneWindowMonths)
	priorStart := periods.MonthStart(now, -2*WarZoneWindowMonths)
	nowEnd := periods.MonthStart(now, 1)

	type categoryState struct {
		count          int
		agencyCounts   map[string]int
		recentAgencies map[string]bool
		priorAgencies  map[string]bool
		yourRecent     int
		yourPrior      int
	}
	states := make(map[string]*categoryState)
	var order []string
	for _, rec := range records {
		st, exists := states[rec.Category]
		if !exists {
			st = &categoryState{
				agencyCounts:   make(map[string]int),
				recentAgencies: make(map[string]bool),
				priorAgencies:  make(map[string]bool),
			}
			states[rec.Category] = st
			order = append(order, rec.Category)
		}
		st.count++
		st.agencyCounts[rec.Agency]++

		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		switch {
		case !posted.Before(recentStart) && posted.Before(nowEnd):
			st.recentAgencies[rec.Agency] = true
			if rec.Agency == yourAgency {
				st.yourRecent++
			}
		case !posted.Before(priorStart) && posted.Before(recentStart):
			st.priorAgencies[rec.Agency] = true
			if rec.Agency == yourAgency {
				st.yourPrior++
			}
		}
	}

	zones := make([]WarZone, 0, len(order))
	for _, cat := range order {
		st := states[cat]
		share := float64(st.count) / float64(total)
		intensity := IntensityAgencyWeight*float64(len(st.agencyCounts)) + IntensityShareWeight*share
		if intensity > IntensityCap {
			intensity = IntensityCap
		}

		leader, leaderCount := maxAgency(st.agencyCounts)
		yourShare := float64(st.agencyCounts[yourAgency]) / float64(st.count) * 100
		trend := categoryTrend(st.yourRecent, st.yourPrior)

		zone := WarZone{
			Category:       cat,
			Intensity:      intensity,
			Leader:         leader,
			LeaderShare:    float64(leaderCount) / float64(st.count) * 100,
			RecentEntrants: setDiff(st.recentAgencies, st.priorAgencies),
			RecentExits:    setDiff(st.priorAgencies, st.recentAgencies),
			YourRank:       agencyRank(st.agencyCounts, yourAgency),
			YourShare:      yourShare,
			YourTrend:      trend,
			Recommendation: recommend(intensity, yourShare, trend),
		}
		zones = append(zones, zone)
	}

	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Intensity > zones[j].Intensity })
	if len(zones) > opts.TopCategories {
		zones = zones[:opts.TopCategories]
	}
	return zones, nil
}

// categoryTrend compares your last-3-months volume in a category against the
// preceding window. Both windows empty means stable; no division involved.
func categoryTrend(recent, prior int) string {
	switch {
	case float64(recent) > GainingRatio*float64(prior) && recent > 0:
		return "gaining"
	case float64(recent) < LosingRatio*float64(prior):
		return "losing"
	default:
		return "stable"
	}
}

// recommend walks the strategic decision table in order.
func recommend(intensity, yourShare float64, trend string) string {
	switch {
	case intensity > contestedIntensity && yourShare < weakShare && trend == "losing":
		return "exit"
	case intensity > contestedIntensity && yourShare < attackShare && trend == "gaining":
		return "attack"
	case yourShare > strongShare && trend == "losing":
		return "defend"
	case yourShare > strongShare:
		return "maintain"
	case intensity < quietIntensity && yourShare < marginalShare:
		return "exit"
	default:
		return "maintain"
	}
}

func maxAgency(counts map[string]int) (string, int) {
	best := ""
	bestCount := 0
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best, bestCount
}

func agencyRank(counts map[string]int, agency string) int {
	if counts[agency] == 0 {
		return 0
	}
	return rankAgencies(counts)[agency]
}

func setDiff(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}
