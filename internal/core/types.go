package core

import "time"

// Direction is the side of a trade.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Bar represents one day's OHLCV observation for a tradable code.
type Bar struct {
	Code   string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// IsValid checks if the bar has required fields.
func (b Bar) IsValid() bool {
	return b.Code != "" && !b.Date.IsZero() && b.Close > 0
}

// Trade is a single executed order. Trades are immutable once created and
// live append-only in the portfolio's trade log.
type Trade struct {
	Date       time.Time `json:"date"`
	Code       string    `json:"code"`
	Direction  Direction `json:"direction"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	Cost       float64   `json:"cost"` // Total cash debit of a BUY, commission included
	Commission float64   `json:"commission"`
}

// Position is a held quantity of one code. Positions are owned exclusively
// by the Portfolio: created on first buy, removed when quantity reaches zero.
type Position struct {
	Code         string
	Quantity     int64
	AvgCost      float64 // Per-unit cost including amortized commission
	CurrentPrice float64
}

// MarketValue returns the position's current mark-to-market value.
func (p Position) MarketValue() float64 {
	return float64(p.Quantity) * p.CurrentPrice
}

// UnrealizedPnL returns the open profit or loss against average cost.
func (p Position) UnrealizedPnL() float64 {
	return (p.CurrentPrice - p.AvgCost) * float64(p.Quantity)
}
