package competition

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/talentwatch/internal/domain"
	"github.com/aristath/talentwatch/internal/modules/periods"
)

const (
	// MaxCompetitors caps the positioning matrix competitor list.
	MaxCompetitors = 5
	// HighThreatSimilarity and HighThreatVolumeRatio together mark a
	// high-threat competitor: very similar category mix and at least 80%
	// of your posting volume.
	HighThreatSimilarity  = 50.0
	HighThreatVolumeRatio = 0.8
	// MediumThreatSimilarity marks a medium-threat competitor.
	MediumThreatSimilarity = 30.0
	// GrowthWindowMonths is the length of each of the two windows compared
	// when computing the recent growth rate.
	GrowthWindowMonths = 3
)

// Positioning builds the positioning matrix for yourAgency: its own metrics
// plus the most similar competitors ranked by category-set Jaccard index.
func Positioning(records []domain.JobRecord, opts Options, yourAgency string, now time.Time) (PositioningMatrix, error) {
	if err := opts.Validate(); err != nil {
		return PositioningMatrix{}, err
	}
	if yourAgency == "" {
		return PositioningMatrix{}, fmt.Errorf("competition: positioning requires an agency")
	}

	matrix := PositioningMatrix{Agency: yourAgency, Competitors: []Competitor{}}

	total := 0
	volumes := make(map[string]int)
	categories := make(map[string]map[string]bool)
	countries := make(map[string]bool)
	yourCategoryCounts := make(map[string]int)
	for _, rec := range records {
		total++
		volumes[rec.Agency]++
		if categories[rec.Agency] == nil {
			categories[rec.Agency] = make(map[string]bool)
		}
		categories[rec.Agency][rec.Category] = true
		if rec.Agency == yourAgency {
			yourCategoryCounts[rec.Category]++
			if rec.DutyCountry != "" {
				countries[rec.DutyCountry] = true
			}
		}
	}
	if total == 0 {
		return matrix, nil
	}

	yourVolume := volumes[yourAgency]
	matrix.Metrics = AgencyMetrics{
		Share:             float64(yourVolume) / float64(total) * 100,
		GrowthRate:        growthRate(records, yourAgency, now),
		CategoryDiversity: shannonDiversity(yourCategoryCounts),
		GeographicReach:   len(countries),
	}

	yourCategories := categories[yourAgency]
	for agency := range categories {
		if agency == yourAgency {
			continue
		}
		similarity := jaccard(yourCategories, categories[agency])
		matrix.Competitors = append(matrix.Competitors, Competitor{
			Agency:      agency,
			Similarity:  similarity,
			Volume:      volumes[agency],
			ThreatLevel: threatLevel(similarity, volumes[agency], yourVolume),
		})
	}
	sort.Slice(matrix.Competitors, func(i, j int) bool {
		if matrix.Competitors[i].Similarity != matrix.Competitors[j].Similarity {
			return matrix.Competitors[i].Similarity > matrix.Competitors[j].Similarity
		}
		return matrix.Competitors[i].Agency < matrix.Competitors[j].Agency
	})
	if len(matrix.Competitors) > MaxCompetitors {
		matrix.Competitors = matrix.Competitors[:MaxCompetitors]
	}
	return matrix, nil
}

// jaccard returns |A∩B| / |A∪B| as a percentage. Symmetric by construction;
// two empty sets score 0, not 100.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for cat := range a {
		if b[cat] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 100
}

func threatLevel(similarity float64, competitorVolume, yourVolume int) string {
	if similarity > HighThreatSimilarity && float64(competitorVolume) >= HighThreatVolumeRatio*float64(yourVolume) {
		return "high"
	}
	if similarity > MediumThreatSimilarity {
		return "medium"
	}
	return "low"
}

// growthRate compares yourAgency's volume in the last GrowthWindowMonths
// against the preceding window, as a percentage change. An empty prior
// window short-circuits to 0 rather than dividing by zero.
func growthRate(records []domain.JobRecord, agency string, now time.Time) float64 {
	recentStart := periods.MonthStart(now, -GrowthWindowMonths)
	priorStart := periods.MonthStart(now, -2*GrowthWindowMonths)
	nowEnd := periods.MonthStart(now, 1)

	recent := 0
	prior := 0
	for _, rec := range records {
		if rec.Agency != agency {
			continue
		}
		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		switch {
		case !posted.Before(recentStart) && posted.Before(nowEnd):
			recent++
		case !posted.Before(priorStart) && posted.Before(recentStart):
			prior++
		}
	}
	if prior == 0 {
		return 0
	}
	return (float64(recent) - float64(prior)) / float64(prior) * 100
}

// shannonDiversity computes base-2 Shannon entropy over a category count
// distribution. Zero for an agency posting in exactly one category.
func shannonDiversity(categoryCounts map[string]int) float64 {
	total := 0
	for _, c := range categoryCounts {
		total += c
	}
	if total == 0 {
		return 0
	}
	probs := make([]float64, 0, len(categoryCounts))
	for _, c := range categoryCounts {
		if c > 0 {
			probs = append(probs, float64(c)/float64(total))
		}
	}
	// stat.Entropy is natural-log based; convert to bits.
	return stat.Entropy(probs) / math.Ln2
}
