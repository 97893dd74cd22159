package competition

// TimelinePoint is one agency's standing in one period.
type TimelinePoint struct {
	Period   string  `json:"period"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`    // Percent of all postings in the period
	Rank     int     `json:"rank"`     // 1-based, by period volume descending
	Velocity float64 `json:"velocity"` // Approximate weekly hiring rate (count / 4)
	Momentum string  `json:"momentum"` // "accelerating", "steady", "decelerating"
}

// AgencyTimeline is the full per-period series for one agency.
type AgencyTimeline struct {
	Agency     string          `json:"agency"`
	AgencyName string          `json:"agency_name"`
	Total      int             `json:"total"`
	Points     []TimelinePoint `json:"points"`
}

// StrategicMove records an agency entering categories it had not posted in
// during the preceding period.
type StrategicMove struct {
	Agency     string   `json:"agency"`
	Period     string   `json:"period"`
	Type       string   `json:"type"` // Always "new_category" for now
	Categories []string `json:"categories"`
	Impact     string   `json:"impact"` // "high", "medium", "low"
}

// AgencyMetrics are the queried agency's own positioning numbers.
type AgencyMetrics struct {
	Share             float64 `json:"share"`              // Percent of all postings
	GrowthRate        float64 `json:"growth_rate"`        // Last 3 months vs prior 3, percent
	CategoryDiversity float64 `json:"category_diversity"` // Shannon entropy, base 2
	GeographicReach   int     `json:"geographic_reach"`   // Distinct duty countries
}

// Competitor is one rival in the positioning matrix.
type Competitor struct {
	Agency      string  `json:"agency"`
	Similarity  float64 `json:"similarity"` // Jaccard index over category sets, 0-100
	Volume      int     `json:"volume"`
	ThreatLevel string  `json:"threat_level"` // "high", "medium", "low"
}

// PositioningMatrix compares one agency against its closest competitors.
type PositioningMatrix struct {
	Agency      string        `json:"agency"`
	Metrics     AgencyMetrics `json:"metrics"`
	Competitors []Competitor  `json:"competitors"`
}

// WarZone assesses one category's competitive landscape for a given agency.
type WarZone struct {
	Category       string   `json:"category"`
	Intensity      float64  `json:"intensity"` // Bounded composite score, 0-10
	Leader         string   `json:"leader"`
	LeaderShare    float64  `json:"leader_share"`
	RecentEntrants []string `json:"recent_entrants"`
	RecentExits    []string `json:"recent_exits"`
	YourRank       int      `json:"your_rank"` // 0 when the agency is absent from the category
	YourShare      float64  `json:"your_share"`
	YourTrend      string   `json:"your_trend"`     // "gaining", "stable", "losing"
	Recommendation string   `json:"recommendation"` // "attack", "defend", "maintain", "exit"
}
