package stats

import "math"

// DefaultZ is the normal quantile for a 95% two-sided interval.
const DefaultZ = 1.96

// WilsonLowerBound returns the lower bound of the Wilson score interval for
// wins out of total Bernoulli trials. It returns 0 when total or wins is 0.
// Wins above total are treated as total.
func WilsonLowerBound(wins, total uint, z float64) float64 {
	if total == 0 || wins == 0 {
		return 0
	}
	if wins > total {
		wins = total
	}
	n := float64(total)
	phat := float64(wins) / n
	z2 := z * z
	denom := 1 + z2/n
	centre := phat + z2/(2*n)
	margin := z * math.Sqrt((phat*(1-phat)+z2/(4*n))/n)
	return math.Max(0, (centre-margin)/denom)
}
