// Package stats provides win/loss counters, confidence bounds, and time
// ranges shared by the aggregation and scoring packages.
package stats

// WinLoss counts the outcomes of a hero, skill, pair or team.
// The zero value means "no data".
type WinLoss struct {
	Wins   uint `json:"wins"`
	Losses uint `json:"losses"`
}

// Add returns the counter with one more outcome recorded.
func (wl WinLoss) Add(won bool) WinLoss {
	if won {
		wl.Wins++
	} else {
		wl.Losses++
	}
	return wl
}

// Total returns wins plus losses.
func (wl WinLoss) Total() uint {
	return wl.Wins + wl.Losses
}

// WinRate returns wins/total, or 0 when there is no data.
func (wl WinLoss) WinRate() float64 {
	total := wl.Total()
	if total == 0 {
		return 0
	}
	return float64(wl.Wins) / float64(total)
}

// Wilson returns the 95% Wilson lower bound of the win rate.
func (wl WinLoss) Wilson() float64 {
	return WilsonLowerBound(wl.Wins, wl.Total(), DefaultZ)
}
