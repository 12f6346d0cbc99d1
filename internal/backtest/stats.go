package backtest

import (
	"math"
)

// tradingDaysPerYear annualizes daily-bar statistics.
const tradingDaysPerYear = 252

// MaxDrawdown finds the largest peak-to-trough relative decline anywhere
// in the equity curve.
func MaxDrawdown(curve []float64) float64 {
	var maxDD float64
	var peak float64

	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// SharpeRatio computes the annualized risk-adjusted return of the equity
// curve from its day-over-day returns. Assumes a risk-free rate of 0.
func SharpeRatio(curve []float64) float64 {
	if len(curve) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1] == 0 {
			return 0
		}
		returns = append(returns, curve[i]/curve[i-1]-1)
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))

	if stdDev == 0 {
		return 0
	}

	annualizedReturn := mean * tradingDaysPerYear
	annualizedStdDev := stdDev * math.Sqrt(tradingDaysPerYear)

	return annualizedReturn / annualizedStdDev
}
