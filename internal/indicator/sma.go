// Package indicator provides rolling price indicators for strategies.
package indicator

// SMA computes the simple moving average over a closing-price series.
// The result has len(prices)-period+1 entries; too little data yields an
// empty slice.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA computes the exponential moving average, seeded with the SMA of the
// first period values.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result = append(result, ema)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

// Cross reports the relation of a fast series to a slow one on the most
// recent value: +1 when fast crossed above slow on the last step, -1 when
// it crossed below, 0 otherwise. Both series must align on their final
// element.
func Cross(fast, slow []float64) int {
	if len(fast) < 2 || len(slow) < 2 {
		return 0
	}

	fNow, fPrev := fast[len(fast)-1], fast[len(fast)-2]
	sNow, sPrev := slow[len(slow)-1], slow[len(slow)-2]

	switch {
	case fPrev <= sPrev && fNow > sNow:
		return 1
	case fPrev >= sPrev && fNow < sNow:
		return -1
	}
	return 0
}
