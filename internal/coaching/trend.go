package coaching

import "github.com/montanaflynn/stats"

// Trend classifies the direction of a metric series.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// trendChangePct is the percent change between half-averages beyond which a
// series counts as moving.
const trendChangePct = 5.0

// CalculateTrend compares the first-half average of a chronological series
// (oldest first) against the second-half average. Fewer than two values is
// always stable. A zero first-half baseline makes the percent change
// undefined; any growth from zero counts as improving, otherwise stable.
func CalculateTrend(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}

	mid := len(values) / 2
	firstMean, _ := stats.Mean(values[:mid])
	secondMean, _ := stats.Mean(values[mid:])

	if firstMean == 0 {
		if secondMean > 0 {
			return TrendImproving
		}
		return TrendStable
	}

	change := (secondMean - firstMean) / firstMean * 100
	switch {
	case change > trendChangePct:
		return TrendImproving
	case change < -trendChangePct:
		return TrendDeclining
	default:
		return TrendStable
	}
}
