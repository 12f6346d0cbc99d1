// Package equalweight implements an equal-weight strategy with fixed
// take-profit and stop-loss exits.
package equalweight

import (
	"fmt"

	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/strategy"
	"go.uber.org/zap"
)

const lotSize = 100

// EqualWeight holds at most maxPositions codes, each sized to an equal
// fraction of the current total portfolio value. Positions exit in full
// when their PnL crosses the take-profit or stop-loss threshold.
type EqualWeight struct {
	maxPositions int
	takeProfit   float64
	stopLoss     float64
	logger       *zap.Logger
}

// Option configures an EqualWeight strategy.
type Option func(*EqualWeight)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *EqualWeight) { e.logger = l }
}

// WithMaxPositions overrides the concurrent position cap.
func WithMaxPositions(n int) Option {
	return func(e *EqualWeight) { e.maxPositions = n }
}

// New creates an EqualWeight strategy with default thresholds.
func New(opts ...Option) *EqualWeight {
	e := &EqualWeight{
		takeProfit: 0.05,
		stopLoss:   -0.02,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *EqualWeight) Name() string {
	return "equal_weight"
}

func (e *EqualWeight) Description() string {
	return fmt.Sprintf("Equal weight, take profit %.0f%%, stop loss %.0f%%",
		e.takeProfit*100, e.stopLoss*100)
}

// OnInit sets the strategy parameters. No bar data is available yet.
func (e *EqualWeight) OnInit(ctx *strategy.Context) error {
	if e.maxPositions <= 0 {
		e.maxPositions = 5
	}
	e.logger.Info("equal weight strategy initialized",
		zap.Int("max_positions", e.maxPositions),
		zap.Float64("slice", 1.0/float64(e.maxPositions)),
	)
	return nil
}

// OnBar sells positions past their exit thresholds, then fills free slots
// with equal-value buys in universe order.
func (e *EqualWeight) OnBar(ctx *strategy.Context, bars *strategy.DayBars) error {
	pf := ctx.Portfolio

	// Exits first: full liquidation at today's close, zero modeled
	// commission.
	for _, code := range bars.Codes() {
		pos, held := pf.Position(code)
		if !held {
			continue
		}
		bar, _ := bars.Get(code)
		pnlPct := (bar.Close - pos.AvgCost) / pos.AvgCost
		if pnlPct > e.takeProfit || pnlPct < e.stopLoss {
			pf.ExecuteTrade(core.Trade{
				Date:      bar.Date,
				Code:      code,
				Direction: core.Sell,
				Quantity:  pos.Quantity,
				Price:     bar.Close,
			})
			e.logger.Debug("sell",
				zap.String("code", code),
				zap.Float64("price", bar.Close),
				zap.Float64("pnl_pct", pnlPct),
			)
		}
	}

	if pf.NumPositions() >= e.maxPositions {
		return nil
	}

	// Slice size is fixed against today's total value before any entries.
	targetValue := pf.TotalValue() / float64(e.maxPositions)

	for _, code := range bars.Codes() {
		if pf.Holds(code) {
			continue
		}
		if pf.Cash() < targetValue || pf.NumPositions() >= e.maxPositions {
			continue
		}
		bar, _ := bars.Get(code)

		// Round down to the nearest full lot.
		quantity := int64(targetValue/(bar.Close*lotSize)) * lotSize
		if quantity == 0 {
			continue
		}

		pf.ExecuteTrade(core.Trade{
			Date:      bar.Date,
			Code:      code,
			Direction: core.Buy,
			Quantity:  quantity,
			Price:     bar.Close,
			Cost:      bar.Close * float64(quantity),
		})
		e.logger.Debug("buy",
			zap.String("code", code),
			zap.Float64("price", bar.Close),
			zap.Int64("quantity", quantity),
		)
	}

	return nil
}
