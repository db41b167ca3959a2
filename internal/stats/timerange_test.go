package stats

import (
	"testing"
	"time"
)

func TestSpanOf(t *testing.T) {
	a := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 5, 18, 30, 0, 0, time.UTC)
	c := time.Date(2025, 2, 27, 9, 15, 0, 0, time.UTC)

	tests := []struct {
		name      string
		times     []time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantText  string
	}{
		{
			name:     "empty",
			times:    nil,
			wantText: "no data",
		},
		{
			name:      "single",
			times:     []time.Time{a},
			wantStart: a,
			wantEnd:   a,
			wantText:  "2025-03-01 10:00 to 2025-03-01 10:00",
		},
		{
			name:      "unordered with zero value",
			times:     []time.Time{b, {}, c, a},
			wantStart: c,
			wantEnd:   b,
			wantText:  "2025-02-27 09:15 to 2025-03-05 18:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := SpanOf(tt.times)
			if !tr.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", tr.Start, tt.wantStart)
			}
			if !tr.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", tr.End, tt.wantEnd)
			}
			if got := tr.FormatPeriod(); got != tt.wantText {
				t.Errorf("FormatPeriod() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	tr := TimeRange{Start: start, End: end}

	if !tr.Contains(start) || !tr.Contains(end) {
		t.Error("bounds should be included")
	}
	if tr.Contains(end.Add(time.Second)) {
		t.Error("time after end should not be contained")
	}
	if tr.Duration() != 48*time.Hour {
		t.Errorf("Duration() = %v", tr.Duration())
	}
}
