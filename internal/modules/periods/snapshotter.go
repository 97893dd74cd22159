// Package periods buckets job records into fixed calendar periods.
// It is the leaf utility of the analytics engine: pure functions, no state.
package periods

import (
	"fmt"
	"time"

	"github.com/aristath/talentwatch/internal/domain"
)

// Granularity selects the calendar bucket size for snapshots.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// Valid reports whether the granularity is one of the supported values.
func (g Granularity) Valid() bool {
	return g == GranularityMonth || g == GranularityQuarter
}

// Snapshot holds the records whose posting date falls inside one calendar
// period. Start is inclusive, End exclusive.
type Snapshot struct {
	Label   string             `json:"label"` // "2024-03" or "2024-Q1"
	Start   time.Time          `json:"start"`
	End     time.Time          `json:"end"`
	Records []domain.JobRecord `json:"-"`
}

// Count returns the number of records in the snapshot.
func (s *Snapshot) Count() int {
	return len(s.Records)
}

// Build returns lookback snapshots ending at the period containing now,
// oldest first. Records with unparseable posting dates are silently omitted
// from every snapshot. A lookback of 0 (or negative) yields nil.
func Build(records []domain.JobRecord, g Granularity, lookback int, now time.Time) []Snapshot {
	if lookback <= 0 || !g.Valid() {
		return nil
	}

	snaps := make([]Snapshot, 0, lookback)
	for i := lookback - 1; i >= 0; i-- {
		start := periodStart(now, g, -i)
		end := periodStart(now, g, -i+1)
		snaps = append(snaps, Snapshot{
			Label: Label(start, g),
			Start: start,
			End:   end,
		})
	}

	for _, rec := range records {
		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		for i := range snaps {
			if inRange(posted, snaps[i].Start, snaps[i].End) {
				snaps[i].Records = append(snaps[i].Records, rec)
				break
			}
		}
	}

	return snaps
}

// InRange returns the records whose posting date falls within [start, end).
// The companion query used by the downstream analyzers for ad-hoc windows.
func InRange(records []domain.JobRecord, start, end time.Time) []domain.JobRecord {
	var out []domain.JobRecord
	for _, rec := range records {
		posted, ok := rec.PostedAt()
		if !ok {
			continue
		}
		if inRange(posted, start, end) {
			out = append(out, rec)
		}
	}
	return out
}

// Label formats the canonical period label for the period containing t.
func Label(t time.Time, g Granularity) string {
	if g == GranularityQuarter {
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	}
	return t.Format("2006-01")
}

// MonthStart returns the first instant of the calendar month offset months
// away from now (offset 0 = current month). Shared by the analyzers that
// work on month buckets regardless of the configured snapshot granularity.
func MonthStart(now time.Time, offset int) time.Time {
	t := now.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
}

func periodStart(now time.Time, g Granularity, offset int) time.Time {
	t := now.UTC()
	if g == GranularityQuarter {
		qm := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset*3, 0)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
