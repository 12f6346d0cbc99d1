// Package portfolio implements the backtest ledger: cash, held positions,
// the trade log, and the daily equity history.
package portfolio

import (
	"github.com/trademaster/trademaster/internal/core"
)

// Portfolio owns the cash balance and position map for one backtest run.
// There is exactly one writer (the engine's day loop) and no concurrent
// readers, so no locking is needed.
type Portfolio struct {
	cash      float64
	positions map[string]*core.Position // code -> position
	trades    []core.Trade
	history   []float64 // daily total equity snapshots
}

// New creates a Portfolio funded with initialCash.
func New(initialCash float64) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]*core.Position),
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() float64 {
	return p.cash
}

// TotalValue returns cash plus the mark-to-market value of all held
// positions. It is recomputed on demand, never stored.
func (p *Portfolio) TotalValue() float64 {
	total := p.cash
	for _, pos := range p.positions {
		total += pos.MarketValue()
	}
	return total
}

// Position returns a copy of the position for code, if held.
func (p *Portfolio) Position(code string) (core.Position, bool) {
	pos, ok := p.positions[code]
	if !ok {
		return core.Position{}, false
	}
	return *pos, true
}

// Holds reports whether a position exists for code.
func (p *Portfolio) Holds(code string) bool {
	_, ok := p.positions[code]
	return ok
}

// NumPositions returns the number of currently held positions.
func (p *Portfolio) NumPositions() int {
	return len(p.positions)
}

// Positions returns copies of all held positions.
func (p *Portfolio) Positions() []core.Position {
	out := make([]core.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	return out
}

// Trades returns the append-only trade log.
func (p *Portfolio) Trades() []core.Trade {
	return p.trades
}

// History returns the recorded daily total-value snapshots.
func (p *Portfolio) History() []float64 {
	return p.history
}

// UpdatePrice overwrites the current price of a held position. It is a
// no-op for codes not held and must never create a position.
func (p *Portfolio) UpdatePrice(code string, price float64) {
	if pos, ok := p.positions[code]; ok {
		pos.CurrentPrice = price
	}
}

// RecordDailyValue appends the current total value to the equity history.
// Called at most once per simulated day, after all price updates and
// strategy activity for that day.
func (p *Portfolio) RecordDailyValue() {
	p.history = append(p.history, p.TotalValue())
}

// ExecuteTrade applies a trade to the ledger. Buys debit the full trade
// cost (commission included) and average it into the position's cost
// basis; sells credit quantity*price minus commission and remove the
// position once its quantity drops to zero or below. Cash is not checked
// against zero: strategies are responsible for sizing against available
// cash before issuing an order. Selling more than held drives the
// quantity negative and removes the position; the ledger stays lenient.
func (p *Portfolio) ExecuteTrade(t core.Trade) {
	p.trades = append(p.trades, t)

	switch t.Direction {
	case core.Buy:
		p.cash -= t.Cost
		if pos, ok := p.positions[t.Code]; ok {
			totalQty := pos.Quantity + t.Quantity
			totalSpend := pos.AvgCost*float64(pos.Quantity) + t.Cost
			pos.Quantity = totalQty
			pos.AvgCost = totalSpend / float64(totalQty)
		} else {
			p.positions[t.Code] = &core.Position{
				Code:         t.Code,
				Quantity:     t.Quantity,
				AvgCost:      t.Cost / float64(t.Quantity),
				CurrentPrice: t.Price,
			}
		}
	case core.Sell:
		p.cash += float64(t.Quantity)*t.Price - t.Commission
		if pos, ok := p.positions[t.Code]; ok {
			pos.Quantity -= t.Quantity
			if pos.Quantity <= 0 {
				delete(p.positions, t.Code)
			}
		}
	}
}
