// Package domain contains the core data types shared by the analytics engine.
// The types here are pure data: no I/O, no clock reads, no hidden state.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// JobRecord is a single job posting as supplied by the hosting application.
// Records are immutable inputs: the engine never modifies them.
type JobRecord struct {
	ID          string   `json:"id" msgpack:"id"`
	Agency      string   `json:"agency" msgpack:"agency"`           // Short name, e.g. "UNDP"
	AgencyName  string   `json:"agency_name" msgpack:"agency_name"` // Long name, e.g. "United Nations Development Programme"
	Title       string   `json:"title" msgpack:"title"`
	Category    string   `json:"category" msgpack:"category"` // Primary job category
	Grade       string   `json:"grade" msgpack:"grade"`       // Grade/seniority code, e.g. "P-4", "NO-B", "CON"
	DutyCountry string   `json:"duty_country" msgpack:"duty_country"`
	DutyStation string   `json:"duty_station" msgpack:"duty_station"`
	PostedDate  string   `json:"posted_date" msgpack:"posted_date"` // Calendar date, "2006-01-02" or RFC3339
	WindowDays  int      `json:"window_days" msgpack:"window_days"` // Days between posting and application deadline
	Skills      []string `json:"skills" msgpack:"skills"`           // Free-text skill labels (pre-tagged upstream)
	Languages   []string `json:"languages" msgpack:"languages"`
}

// postedDateLayouts are tried in order when parsing PostedDate.
var postedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// PostedAt parses the posting date. The boolean reports whether the date was
// parseable; records with unparseable dates are excluded from date-bucketed
// computations but remain part of the overall dataset.
func (r *JobRecord) PostedAt() (time.Time, bool) {
	s := strings.TrimSpace(r.PostedDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Location returns the best available duty location label for grouping:
// the duty station when present, otherwise the duty country.
func (r *JobRecord) Location() string {
	if r.DutyStation != "" {
		return r.DutyStation
	}
	return r.DutyCountry
}

// Seniority is the coarse seniority class derived from a grade code.
type Seniority string

const (
	SeniorityConsultant Seniority = "consultant"
	SenioritySupport    Seniority = "support"
	SeniorityMid        Seniority = "mid-level"
	SenioritySenior     Seniority = "senior"
	SeniorityExecutive  Seniority = "executive"
	SeniorityUnknown    Seniority = "unspecified"
)

// Grade code patterns follow the UN common system. Matching is on the
// normalized (uppercase, trimmed) code, most specific first.
var (
	consultantPattern = regexp.MustCompile(`^(CON|IC[A-Z]?[-_ ]?\d*|CONSULTANT|SB[-_]?\d|INTERN)`)
	supportPattern    = regexp.MustCompile(`^(G[-_]?\d|GS[-_]?\d|FS[-_]?\d)`)
	midPattern        = regexp.MustCompile(`^(P[-_]?[123]|NO[-_]?[AB]|NOA|NOB)`)
	seniorPattern     = regexp.MustCompile(`^(P[-_]?[4567]|NO[-_]?[CDE]|NOC|NOD|NOE)`)
	executivePattern  = regexp.MustCompile(`^(D[-_]?[12]|ASG|USG|DSG|SG$)`)
)

// SeniorityOf classifies a grade code into a seniority class. Unrecognized
// codes map to SeniorityUnknown rather than guessing.
func SeniorityOf(grade string) Seniority {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "" {
		return SeniorityUnknown
	}
	switch {
	case executivePattern.MatchString(g):
		return SeniorityExecutive
	case seniorPattern.MatchString(g):
		return SenioritySenior
	case midPattern.MatchString(g):
		return SeniorityMid
	case supportPattern.MatchString(g):
		return SenioritySupport
	case consultantPattern.MatchString(g):
		return SeniorityConsultant
	default:
		return SeniorityUnknown
	}
}

// IsSeniorGrade reports whether a grade code sits at senior or executive level.
func IsSeniorGrade(grade string) bool {
	s := SeniorityOf(grade)
	return s == SenioritySenior || s == SeniorityExecutive
}
