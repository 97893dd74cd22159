package surge

// LocationShare is one duty location's contribution to a surge.
type LocationShare struct {
	Location string  `json:"location"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// GradeProfile is the modal grade of a surge and its concentration.
type GradeProfile struct {
	Grade         string  `json:"grade"`
	Seniority     string  `json:"seniority"`
	Concentration float64 `json:"concentration"` // Share of surge postings at the modal grade, 0-100
}

// Event is one detected hiring surge for an (agency, category) pair.
// Events are value objects: each detection run produces a fresh set.
type Event struct {
	Agency        string          `json:"agency"`
	AgencyName    string          `json:"agency_name"`
	Category      string          `json:"category"`
	CurrentCount  int             `json:"current_count"`
	BaselineAvg   float64         `json:"baseline_avg"`
	Multiplier    float64         `json:"multiplier"`
	Anomalous     bool            `json:"anomalous"`
	TopLocations  []LocationShare `json:"top_locations"`
	DominantGrade GradeProfile    `json:"dominant_grade"`
	Signal        string          `json:"signal"`
}

// AgencyContribution is one agency's share of a category-level rollup.
type AgencyContribution struct {
	Agency       string  `json:"agency"`
	CurrentCount int     `json:"current_count"`
	Multiplier   float64 `json:"multiplier"`
}

// CategoryRollup aggregates all surge events sharing a category.
type CategoryRollup struct {
	Category     string               `json:"category"`
	TotalCurrent int                  `json:"total_current"`
	Agencies     []AgencyContribution `json:"agencies"`
	TopLocations []LocationShare      `json:"top_locations"`
}

// SystemTrend compares current-month volume against the trailing average
// across the whole dataset, independent of any grouping.
type SystemTrend struct {
	CurrentMonthTotal int     `json:"current_month_total"`
	TrailingAverage   float64 `json:"trailing_average"`
	Multiplier        float64 `json:"multiplier"`
	Direction         string  `json:"direction"` // "up", "down", "flat"
}

// Report is the full output of one detection run.
type Report struct {
	Surges     []Event          `json:"surges"`
	Categories []CategoryRollup `json:"categories"`
	Trend      SystemTrend      `json:"trend"`
}
