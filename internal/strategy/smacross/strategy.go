// Package smacross implements a dual moving-average crossover strategy.
package smacross

import (
	"fmt"

	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/indicator"
	"github.com/trademaster/trademaster/internal/strategy"
	"go.uber.org/zap"
)

const lotSize = 100

// SMACross buys when the fast average crosses above the slow one and
// liquidates on the opposite cross. Close history accumulates across bars;
// a code trades only once it has slowPeriod+1 observations.
type SMACross struct {
	fastPeriod   int
	slowPeriod   int
	maxPositions int
	closes       map[string][]float64
	logger       *zap.Logger
}

// Option configures an SMACross strategy.
type Option func(*SMACross)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *SMACross) { s.logger = l }
}

// WithPeriods overrides the fast and slow window lengths.
func WithPeriods(fast, slow int) Option {
	return func(s *SMACross) {
		s.fastPeriod = fast
		s.slowPeriod = slow
	}
}

// WithMaxPositions overrides the concurrent position cap.
func WithMaxPositions(n int) Option {
	return func(s *SMACross) { s.maxPositions = n }
}

// New creates an SMACross strategy with default periods.
func New(opts ...Option) *SMACross {
	s := &SMACross{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SMACross) Name() string {
	return "sma_cross"
}

func (s *SMACross) Description() string {
	return fmt.Sprintf("SMA crossover, fast %d / slow %d", s.fastPeriod, s.slowPeriod)
}

// OnInit sets defaults and resets the accumulated close history.
func (s *SMACross) OnInit(ctx *strategy.Context) error {
	if s.fastPeriod <= 0 {
		s.fastPeriod = 5
	}
	if s.slowPeriod <= s.fastPeriod {
		s.slowPeriod = 20
	}
	if s.maxPositions <= 0 {
		s.maxPositions = 5
	}
	s.closes = make(map[string][]float64)
	s.logger.Info("sma cross strategy initialized",
		zap.Int("fast", s.fastPeriod),
		zap.Int("slow", s.slowPeriod),
		zap.Int("max_positions", s.maxPositions),
	)
	return nil
}

// OnBar extends each code's close history, then acts on crossover signals:
// death crosses liquidate first, golden crosses open equal-value entries
// in universe order.
func (s *SMACross) OnBar(ctx *strategy.Context, bars *strategy.DayBars) error {
	pf := ctx.Portfolio

	signals := make(map[string]int, bars.Len())
	for _, code := range bars.Codes() {
		bar, _ := bars.Get(code)
		s.closes[code] = append(s.closes[code], bar.Close)

		history := s.closes[code]
		if len(history) <= s.slowPeriod {
			continue
		}
		fast := indicator.SMA(history, s.fastPeriod)
		slow := indicator.SMA(history, s.slowPeriod)
		signals[code] = indicator.Cross(fast, slow)
	}

	for _, code := range bars.Codes() {
		if signals[code] != -1 {
			continue
		}
		pos, held := pf.Position(code)
		if !held {
			continue
		}
		bar, _ := bars.Get(code)
		pf.ExecuteTrade(core.Trade{
			Date:      bar.Date,
			Code:      code,
			Direction: core.Sell,
			Quantity:  pos.Quantity,
			Price:     bar.Close,
		})
		s.logger.Debug("death cross sell",
			zap.String("code", code),
			zap.Float64("price", bar.Close),
		)
	}

	if pf.NumPositions() >= s.maxPositions {
		return nil
	}

	targetValue := pf.TotalValue() / float64(s.maxPositions)

	for _, code := range bars.Codes() {
		if signals[code] != 1 || pf.Holds(code) {
			continue
		}
		if pf.Cash() < targetValue || pf.NumPositions() >= s.maxPositions {
			continue
		}
		bar, _ := bars.Get(code)

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
		s.logger.Debug("golden cross buy",
			zap.String("code", code),
			zap.Float64("price", bar.Close),
			zap.Int64("quantity", quantity),
		)
	}

	return nil
}
