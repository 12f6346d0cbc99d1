package backtest

import (
	"time"

	"github.com/trademaster/trademaster/internal/core"
)

// Config is the immutable input to an engine run.
type Config struct {
	StartDate   time.Time
	EndDate     time.Time
	InitialCash float64
	Baselines   []string // benchmark index codes
	Universe    []string // tradable codes, in allocation order
}

// Result holds the complete backtest output. It is a terminal, immutable
// snapshot: a failed run produces no Result at all.
type Result struct {
	ID        string    `json:"id"`
	Strategy  string    `json:"strategy"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`

	// EquityCurve is the daily total value divided by the initial cash,
	// one entry per simulated trading day. It starts at 1.0 only when
	// the first recorded day left the portfolio untouched.
	EquityCurve []float64 `json:"equity_curve"`

	// Baselines maps each benchmark code to its close series aligned to
	// Dates and normalized by its first available value. Entries with
	// dates before the benchmark's first observation are NaN.
	Baselines map[string][]float64 `json:"-"`

	// Dates is the ordered sequence of simulated trading days; it always
	// has the same length as EquityCurve.
	Dates []time.Time `json:"dates"`

	Trades []core.Trade `json:"trades"`
}
