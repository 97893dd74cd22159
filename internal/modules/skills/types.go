package skills

// TimelinePoint is one skill's demand in one period.
type TimelinePoint struct {
	Period  string  `json:"period"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // Share of the period's postings mentioning the skill
	Trend   string  `json:"trend"`   // "rising", "stable", "falling"
}

// Classification summarizes a skill's market posture.
type Classification struct {
	DemandLevel         string `json:"demand_level"`         // "high", "medium", "low"
	GrowthTrajectory    string `json:"growth_trajectory"`    // "emerging", "growing", "declining", "mature"
	StrategicImportance string `json:"strategic_importance"` // "critical", "important", "nice_to_have"
}

// MarketContext situates a skill among the agencies competing for it.
type MarketContext struct {
	Agencies             []string `json:"agencies"`              // Agencies seeking the skill
	CompetitionIntensity float64  `json:"competition_intensity"` // Same bounded composite as war zones
	SupplyDifficulty     string   `json:"supply_difficulty"`     // "scarce", "competitive", "abundant"
}

// Timeline is the full demand picture for one skill.
type Timeline struct {
	Skill          string          `json:"skill"`
	Total          int             `json:"total"`
	Points         []TimelinePoint `json:"points"`
	Classification Classification  `json:"classification"`
	Market         MarketContext   `json:"market"`
}

// CoOccurrence is one companion skill's share of the subject skill's postings.
type CoOccurrence struct {
	Skill   string  `json:"skill"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // Of the subject skill's own occurrence count
}

// Profile describes what a skill's postings look like beyond raw demand.
type Profile struct {
	Skill          string         `json:"skill"`
	CoOccurring    []CoOccurrence `json:"co_occurring"`    // Top 5
	TopCategories  []string       `json:"top_categories"`  // Top 3
	TopSeniorities []string       `json:"top_seniorities"` // Top 3
	MeanWindowDays float64        `json:"mean_window_days"`
}

// Emerging is a skill that is new or has grown sharply in the trailing
// six months versus the six months before that.
type Emerging struct {
	Skill             string   `json:"skill"`
	FirstSeen         string   `json:"first_seen"` // Period label of first appearance
	RecentCount       int      `json:"recent_count"`
	PriorCount        int      `json:"prior_count"`
	GrowthRate        float64  `json:"growth_rate"` // Percent; fixed 200 for brand-new skills
	Agencies          []string `json:"agencies"`    // Adopting agencies
	RelatedSkills     []string `json:"related_skills"`
	WillGoMainstream  bool     `json:"will_go_mainstream"`
	Confidence        float64  `json:"confidence"`         // Bounded composite, 0-95; not a calibrated probability
	EstimatedTimeline string   `json:"estimated_timeline"` // "6 months", "12 months", "18 months"
}
