package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWilsonLowerBound_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, WilsonLowerBound(0, 0, DefaultZ))
	assert.Equal(t, 0.0, WilsonLowerBound(5, 0, DefaultZ))

	for n := uint(1); n <= 10000; n++ {
		if got := WilsonLowerBound(0, n, DefaultZ); got != 0 {
			t.Fatalf("wilson(0, %d) = %v, want 0", n, got)
		}
	}
}

func TestWilsonLowerBound_WinsAboveTotal(t *testing.T) {
	got := WilsonLowerBound(5, 3, DefaultZ)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, WilsonLowerBound(3, 3, DefaultZ), got)
}

func TestWilsonLowerBound_KnownValues(t *testing.T) {
	tests := []struct {
		wins, total uint
		want        float64
	}{
		{1, 1, 0.2065},
		{8, 10, 0.4902},
		{10, 10, 0.7225},
		{50, 100, 0.4038},
	}

	for _, tt := range tests {
		got := WilsonLowerBound(tt.wins, tt.total, DefaultZ)
		assert.InDelta(t, tt.want, got, 0.0005, "wilson(%d, %d)", tt.wins, tt.total)
	}
}

func TestWilsonLowerBound_MonotonicInSampleSize(t *testing.T) {
	small := WilsonLowerBound(1, 1, DefaultZ)
	medium := WilsonLowerBound(10, 10, DefaultZ)
	large := WilsonLowerBound(100, 100, DefaultZ)

	assert.Less(t, small, medium)
	assert.Less(t, medium, large)

	prev := 0.0
	for n := uint(2); n <= 200; n += 2 {
		got := WilsonLowerBound(n/2, n, DefaultZ)
		assert.Greater(t, got, prev, "n=%d", n)
		prev = got
	}
}

func TestWilsonLowerBound_Range(t *testing.T) {
	for total := uint(1); total <= 30; total++ {
		for wins := uint(0); wins <= total; wins++ {
			got := WilsonLowerBound(wins, total, DefaultZ)
			if got < 0 || got > 1 || math.IsNaN(got) {
				t.Fatalf("wilson(%d, %d) = %v out of range", wins, total, got)
			}
			if got > float64(wins)/float64(total) {
				t.Fatalf("wilson(%d, %d) = %v exceeds raw rate", wins, total, got)
			}
		}
	}
}

func TestWilsonLowerBound_Deterministic(t *testing.T) {
	a := WilsonLowerBound(37, 61, DefaultZ)
	b := WilsonLowerBound(37, 61, DefaultZ)
	assert.Equal(t, math.Float64bits(a), math.Float64bits(b))
}

func TestWinLoss(t *testing.T) {
	var wl WinLoss
	assert.Equal(t, uint(0), wl.Total())
	assert.Equal(t, 0.0, wl.WinRate())
	assert.Equal(t, 0.0, wl.Wilson())

	wl = wl.Add(true).Add(true).Add(false)
	assert.Equal(t, WinLoss{Wins: 2, Losses: 1}, wl)
	assert.Equal(t, uint(3), wl.Total())
	assert.InDelta(t, 2.0/3.0, wl.WinRate(), 1e-12)
	assert.Equal(t, WilsonLowerBound(2, 3, DefaultZ), wl.Wilson())
}
