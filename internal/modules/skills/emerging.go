package skills

import (
	"sort"
	"strings"
	"time"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

const (
	// EmergingWindowMonths is the length of each of the two compared windows.
	EmergingWindowMonths = 6
	// EmergingGrowthFactor is the minimum recent/prior ratio to qualify.
	EmergingGrowthFactor = 1.5
	// NewSkillGrowthRate stands in for unmeasurable growth from zero.
	NewSkillGrowthRate = 200.0
	// MaxEmergingResults caps the emerging-skill list.
	MaxEmergingResults = 10

	// Mainstream-adoption prediction thresholds. The confidence figure is a
	// bounded composite of growth, demand, and agency count, not a
	// calibrated probability.
	MainstreamGrowth     = 100.0
	MainstreamDemand     = 10
	MainstreamAgencies   = 5
	ConfidenceCap        = 95.0
	FastTimelineGrowth   = 150.0
	MediumTimelineGrowth = 100.0
)

// DetectEmerging compares each skill's frequency in the trailing six months
// against the six months before that. A skill qualifies when it is brand new
// in the recent window or has grown by at least EmergingGrowthFactor.
// Results are sorted by growth rate, top MaxEmergingResults.
func DetectEmerging(records []domain.JobRecord, opts Options, now time.Time) ([]Emerging, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	recentStart := periods.MonthStart(now, -EmergingWindowMonths)
	priorStart := periods.MonthStart(now, -2*EmergingWindowMonths)
	nowEnd := periods.MonthStart(now, 1)

	type skillState struct {
		display   string
		recent    int
		prior     int
		agencies  map[string]bool
		firstSeen time.Time
	}
	states := make(map[string]*skillState)
	for i := range records {
		rec := &records[i]
		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		inRecent := !posted.Before(recentStart) && posted.Before(nowEnd)
		inPrior := !posted.Before(priorStart) && posted.Before(recentStart)
		for _, skill := range Extract(rec, opts.Vocabulary) {
			key := strings.ToLower(skill)
			st, exists := states[key]
			if !exists {
				st = &skillState{display: skill, agencies: make(map[string]bool), firstSeen: posted}
				states[key] = st
			}
			if posted.Before(st.firstSeen) {
				st.firstSeen = posted
			}
			if inRecent {
				st.recent++
				st.agencies[rec.Agency] = true
			} else if inPrior {
				st.prior++
			}
		}
	}

	var out []Emerging
	for key, st := range states {
		if st.recent == 0 {
			continue
		}
		isNew := st.prior == 0
		if !isNew && float64(st.recent) < EmergingGrowthFactor*float64(st.prior) {
			continue
		}

		growth := NewSkillGrowthRate
		if !isNew {
			growth = (float64(st.recent) - float64(st.prior)) / float64(st.prior) * 100
		}

		e := Emerging{
			Skill:         st.display,
			FirstSeen:     periods.Label(st.firstSeen, opts.Granularity),
			RecentCount:   st.recent,
			PriorCount:    st.prior,
			GrowthRate:    growth,
			Agencies:      sortedKeys(st.agencies),
			RelatedSkills: relatedSkills(records, key, opts.Vocabulary),
		}
		e.WillGoMainstream = growth > MainstreamGrowth &&
			st.recent > MainstreamDemand &&
			len(st.agencies) >= MainstreamAgencies
		e.Confidence = mainstreamConfidence(growth, st.recent, len(st.agencies))
		e.EstimatedTimeline = mainstreamTimeline(growth)
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GrowthRate != out[j].GrowthRate {
			return out[i].GrowthRate > out[j].GrowthRate
		}
		if out[i].RecentCount != out[j].RecentCount {
			return out[i].RecentCount > out[j].RecentCount
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > MaxEmergingResults {
		out = out[:MaxEmergingResults]
	}
	if out == nil {
		out = []Emerging{}
	}
	return out, nil
}

// mainstreamConfidence blends growth, demand, and adopter breadth into a
// bounded 0-95 score.
func mainstreamConfidence(growth float64, demand, agencies int) float64 {
	g := growth / NewSkillGrowthRate
	if g > 1 {
		g = 1
	}
	d := float64(demand) / 50.0
	if d > 1 {
		d = 1
	}
	a := float64(agencies) / 10.0
	if a > 1 {
		a = 1
	}
	confidence := (0.4*g + 0.3*d + 0.3*a) * 100
	if confidence > ConfidenceCap {
		confidence = ConfidenceCap
	}
	return confidence
}

// mainstreamTimeline is a three-tier lookup on growth rate.
func mainstreamTimeline(growth float64) string {
	switch {
	case growth > FastTimelineGrowth:
		return "6 months"
	case growth > MediumTimelineGrowth:
		return "12 months"
	default:
		return "18 months"
	}
}

// relatedSkills returns the strongest co-occurring skills for an emerging
// skill, drawn from the full record set.
func relatedSkills(records []domain.JobRecord, skillKey string, vocab Vocabulary) []string {
	profile := ProfileFor(records, skillKey, vocab)
	limit := MaxProfileFacets
	if len(profile.CoOccurring) < limit {
		limit = len(profile.CoOccurring)
	}
	related := make([]string, 0, limit)
	for _, co := range profile.CoOccurring[:limit] {
		related = append(related, co.Skill)
	}
	return related
}
