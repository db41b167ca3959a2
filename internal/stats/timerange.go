package stats

import (
	"fmt"
	"time"
)

// TimeRange is an inclusive span of capture times.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SpanOf returns the smallest range covering every time given.
// Zero times are ignored; the result is zero when nothing remains.
func SpanOf(times []time.Time) TimeRange {
	var tr TimeRange
	for _, ts := range times {
		if ts.IsZero() {
			continue
		}
		if tr.Start.IsZero() || ts.Before(tr.Start) {
			tr.Start = ts
		}
		if tr.End.IsZero() || ts.After(tr.End) {
			tr.End = ts
		}
	}
	return tr
}

// IsZero reports whether the range is empty.
func (tr TimeRange) IsZero() bool {
	return tr.Start.IsZero() && tr.End.IsZero()
}

// Contains reports whether ts falls within the range, bounds included.
func (tr TimeRange) Contains(ts time.Time) bool {
	return !ts.Before(tr.Start) && !ts.After(tr.End)
}

// Duration returns the length of the range.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// FormatPeriod returns a human-readable description of the time period.
func (tr TimeRange) FormatPeriod() string {
	if tr.IsZero() {
		return "no data"
	}
	return fmt.Sprintf("%s to %s", tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"))
}
