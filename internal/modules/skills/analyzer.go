// Package skills builds per-skill demand timelines, co-occurrence profiles,
// and emerging-skill detections from the shared record set.
package skills

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

const (
	// TrendBand is the period-over-period change (percent) separating
	// stable from rising/falling.
	TrendBand = 15.0

	// Demand-level cutoffs on the multi-period average count.
	HighDemandAvg   = 50.0
	MediumDemandAvg = 20.0

	// Strategic-importance cutoffs on the senior-grade share of postings.
	CriticalSeniorShare  = 40.0
	ImportantSeniorShare = 20.0

	// Supply-difficulty cutoffs on the share of postings with application
	// windows under ScarceWindowDays days.
	ScarceWindowDays = 14
	ScarceShare      = 0.4
	CompetitiveShare = 0.2

	// TrajectoryWindow is how many trailing trend points feed the
	// growth-trajectory classification.
	TrajectoryWindow = 3

	// MaxCoOccurring and MaxProfileFacets cap profile breakdowns.
	MaxCoOccurring   = 5
	MaxProfileFacets = 3
)

// Options configures the analyzer.
type Options struct {
	Granularity periods.Granularity
	Lookback    int // Number of periods in the timeline window
	TopSkills   int // How many skills (by total occurrence) get timelines
	Vocabulary  Vocabulary
}

// DefaultOptions returns the standard analyzer configuration.
func DefaultOptions() Options {
	return Options{
		Granularity: periods.GranularityMonth,
		Lookback:    6,
		TopSkills:   15,
		Vocabulary:  DefaultVocabulary(),
	}
}

// Validate rejects structurally invalid configuration up front.
func (o Options) Validate() error {
	if !o.Granularity.Valid() {
		return fmt.Errorf("skills: invalid granularity %q", o.Granularity)
	}
	if o.Lookback <= 0 {
		return fmt.Errorf("skills: lookback must be positive, got %d", o.Lookback)
	}
	if o.TopSkills <= 0 {
		return fmt.Errorf("skills: top skills must be positive, got %d", o.TopSkills)
	}
	return nil
}

// Extract returns the deduplicated skill set of one record: its explicit
// labels plus vocabulary terms found in the title. Skills are normalized
// to lower case for matching but reported as found in the labels.
func Extract(rec *domain.JobRecord, vocab Vocabulary) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(skill string) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return
		}
		key := strings.ToLower(skill)
		if !seen[key] {
			seen[key] = true
			out = append(out, skill)
		}
	}
	for _, label := range rec.Skills {
		add(label)
	}
	title := strings.ToLower(rec.Title)
	for _, term := range vocab.Terms {
		if strings.Contains(title, strings.ToLower(term)) {
			add(term)
		}
	}
	return out
}

// Timelines computes demand timelines, classification, and market context
// for the top skills by total occurrence.
func Timelines(records []domain.JobRecord, opts Options, now time.Time) ([]Timeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snaps := periods.Build(records, opts.Granularity, opts.Lookback, now)
	top := topSkills(records, opts)

	// Per-period lower-cased skill counts.
	periodCounts := make([]map[string]int, len(snaps))
	for i := range snaps {
		counts := make(map[string]int)
		for _, rec := range snaps[i].Records {
			for _, skill := range Extract(&rec, opts.Vocabulary) {
				counts[strings.ToLower(skill)]++
			}
		}
		periodCounts[i] = counts
	}

	timelines := make([]Timeline, 0, len(top))
	for _, sk := range top {
		tl := Timeline{Skill: sk.name, Total: sk.total}
		key := strings.ToLower(sk.name)
		prevCount := -1 // -1 marks "no previous period"
		var sum float64
		for i := range snaps {
			count := periodCounts[i][key]
			point := TimelinePoint{
				Period: snaps[i].Label,
				Count:  count,
				Trend:  "stable",
			}
			if total := snaps[i].Count(); total > 0 {
				point.Percent = float64(count) / float64(total) * 100
			}
			// A skill absent in the previous period always reports stable:
			// the percentage change is undefined there.
			if prevCount > 0 {
				change := (float64(count) - float64(prevCount)) / float64(prevCount) * 100
				if change > TrendBand {
					point.Trend = "rising"
				} else if change < -TrendBand {
					point.Trend = "falling"
				}
			}
			prevCount = count
			sum += float64(count)
			tl.Points = append(tl.Points, point)
		}

		avg := 0.0
		if len(tl.Points) > 0 {
			avg = sum / float64(len(tl.Points))
		}
		tl.Classification = classify(tl.Points, avg, records, key, opts.Vocabulary)
		tl.Market = marketContext(records, key, opts.Vocabulary)
		timelines = append(timelines, tl)
	}
	return timelines, nil
}

// classify derives demand level, growth trajectory, and strategic importance.
func classify(points []TimelinePoint, avg float64, records []domain.JobRecord, skillKey string, vocab Vocabulary) Classification {
	c := Classification{}

	switch {
	case avg > HighDemandAvg:
		c.DemandLevel = "high"
	case avg > MediumDemandAvg:
		c.DemandLevel = "medium"
	default:
		c.DemandLevel = "low"
	}

	rising, falling := 0, 0
	start := len(points) - TrajectoryWindow
	if start < 0 {
		start = 0
	}
	for _, p := range points[start:] {
		switch p.Trend {
		case "rising":
			rising++
		case "falling":
			falling++
		}
	}
	switch {
	case rising >= 2 && c.DemandLevel == "low":
		c.GrowthTrajectory = "emerging"
	case rising >= 2:
		c.GrowthTrajectory = "growing"
	case falling >= 2:
		c.GrowthTrajectory = "declining"
	default:
		c.GrowthTrajectory = "mature"
	}

	seniorShare := seniorShareOf(records, skillKey, vocab)
	switch {
	case seniorShare > CriticalSeniorShare || c.DemandLevel == "high":
		c.StrategicImportance = "critical"
	case seniorShare > ImportantSeniorShare || c.DemandLevel == "medium":
		c.StrategicImportance = "important"
	default:
		c.StrategicImportance = "nice_to_have"
	}
	return c
}

// seniorShareOf is the percentage of a skill's postings at senior or
// executive grade.
func seniorShareOf(records []domain.JobRecord, skillKey string, vocab Vocabulary) float64 {
	total, senior := 0, 0
	for i := range records {
		if !recordHasSkill(&records[i], skillKey, vocab) {
			continue
		}
		total++
		if domain.IsSeniorGrade(records[i].Grade) {
			senior++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(senior) / float64(total) * 100
}

// marketContext computes the agencies seeking a skill, the war-zone style
// competition intensity, and supply difficulty from short application windows.
func marketContext(records []domain.JobRecord, skillKey string, vocab Vocabulary) MarketContext {
	agencies := make(map[string]bool)
	count, shortWindow := 0, 0
	for i := range records {
		if !recordHasSkill(&records[i], skillKey, vocab) {
			continue
		}
		count++
		agencies[records[i].Agency] = true
		if records[i].WindowDays > 0 && records[i].WindowDays < ScarceWindowDays {
			shortWindow++
		}
	}

	ctx := MarketContext{Agencies: sortedKeys(agencies), SupplyDifficulty: "abundant"}
	if count == 0 || len(records) == 0 {
		return ctx
	}

	share := float64(count) / float64(len(records))
	intensity := 0.5*float64(len(agencies)) + 100.0*share
	if intensity > 10 {
		intensity = 10
	}
	ctx.CompetitionIntensity = intensity

	shortShare := float64(shortWindow) / float64(count)
	switch {
	case shortShare > ScarceShare:
		ctx.SupplyDifficulty = "scarce"
	case shortShare > CompetitiveShare:
		ctx.SupplyDifficulty = "competitive"
	}
	return ctx
}

// Profiles computes the co-occurrence profile for each top skill.
func Profiles(records []domain.JobRecord, opts Options) ([]Profile, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	top := topSkills(records, opts)
	profiles := make([]Profile, 0, len(top))
	for _, sk := range top {
		profiles = append(profiles, profileOf(records, sk.name, sk.total, opts.Vocabulary))
	}
	return profiles, nil
}

// ProfileFor computes the co-occurrence profile for one named skill.
func ProfileFor(records []domain.JobRecord, skill string, vocab Vocabulary) Profile {
	key := strings.ToLower(skill)
	total := 0
	for i := range records {
		if recordHasSkill(&records[i], key, vocab) {
			total++
		}
	}
	return profileOf(records, skill, total, vocab)
}

func profileOf(records []domain.JobRecord, skill string, total int, vocab Vocabulary) Profile {
	key := strings.ToLower(skill)
	coCounts := make(map[string]int)
	categories := make(map[string]int)
	seniorities := make(map[string]int)
	windowSum, windowCount := 0, 0

	for i := range records {
		rec := &records[i]
		skillsOf := Extract(rec, vocab)
		if !containsFold(skillsOf, key) {
			continue
		}
		for _, other := range skillsOf {
			if strings.ToLower(other) != key {
				coCounts[strings.ToLower(other)]++
			}
		}
		if rec.Category != "" {
			categories[rec.Category]++
		}
		seniorities[string(domain.SeniorityOf(rec.Grade))]++
		if rec.WindowDays > 0 {
			windowSum += rec.WindowDays
			windowCount++
		}
	}

	p := Profile{
		Skill:          skill,
		CoOccurring:    []CoOccurrence{},
		TopCategories:  topKeys(categories, MaxProfileFacets),
		TopSeniorities: topKeys(seniorities, MaxProfileFacets),
	}
	if windowCount > 0 {
		p.MeanWindowDays = float64(windowSum) / float64(windowCount)
	}
	if total == 0 {
		return p
	}

	for other, count := range coCounts {
		p.CoOccurring = append(p.CoOccurring, CoOccurrence{
			Skill:   other,
			Count:   count,
			Percent: float64(count) / float64(total) * 100,
		})
	}
	sort.Slice(p.CoOccurring, func(i, j int) bool {
		if p.CoOccurring[i].Count != p.CoOccurring[j].Count {
			return p.CoOccurring[i].Count > p.CoOccurring[j].Count
		}
		return p.CoOccurring[i].Skill < p.CoOccurring[j].Skill
	})
	if len(p.CoOccurring) > MaxCoOccurring {
		p.CoOccurring = p.CoOccurring[:MaxCoOccurring]
	}
	return p
}

// skillVolume carries ranking data for one skill.
type skillVolume struct {
	name  string
	total int
}

// topSkills ranks skills by total occurrence across all records. Ties break
// alphabetically for determinism.
func topSkills(records []domain.JobRecord, opts Options) []skillVolume {
	totals := make(map[string]int)
	display := make(map[string]string)
	for i := range records {
		for _, skill := range Extract(&records[i], opts.Vocabulary) {
			key := strings.ToLower(skill)
			totals[key]++
			if _, ok := display[key]; !ok {
				display[key] = skill
			}
		}
	}
	out := make([]skillVolume, 0, len(totals))
	for key, total := range totals {
		out = append(out, skillVolume{name: display[key], total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total > out[j].total
		}
		return out[i].name < out[j].name
	})
	if len(out) > opts.TopSkills {
		out = out[:opts.TopSkills]
	}
	return out
}

func recordHasSkill(rec *domain.JobRecord, skillKey string, vocab Vocabulary) bool {
	return containsFold(Extract(rec, vocab), skillKey)
}

func containsFold(skills []string, key string) bool {
	for _, s := range skills {
		if strings.ToLower(s) == key {
			return true
		}
	}
	return false
}

func topKeys(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
