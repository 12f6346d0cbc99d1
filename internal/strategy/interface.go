package strategy

import (
	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/portfolio"
)

// Context is the only handle a strategy receives from the engine. It
// exposes the portfolio and nothing else; the engine's date cursor and
// data source stay hidden. Order-placement helpers belong here when
// they arrive.
type Context struct {
	Portfolio *portfolio.Portfolio
}

// DayBars holds one trading day's bars keyed by code. Iteration order is
// the insertion order established by the universe list: strategies that
// allocate limited cash must see codes in a deterministic sequence.
type DayBars struct {
	codes []string
	bars  map[string]core.Bar
}

// NewDayBars creates an empty DayBars.
func NewDayBars() *DayBars {
	return &DayBars{bars: make(map[string]core.Bar)}
}

// Add inserts or replaces the bar for code, preserving first-insertion order.
func (d *DayBars) Add(code string, bar core.Bar) {
	if _, ok := d.bars[code]; !ok {
		d.codes = append(d.codes, code)
	}
	d.bars[code] = bar
}

// Get returns the bar for code, if present.
func (d *DayBars) Get(code string) (core.Bar, bool) {
	bar, ok := d.bars[code]
	return bar, ok
}

// Codes returns the codes in insertion order.
func (d *DayBars) Codes() []string {
	return d.codes
}

// Len returns the number of bars.
func (d *DayBars) Len() int {
	return len(d.codes)
}

// Strategy defines the interface for trading strategies. OnInit runs
// exactly once before any OnBar and must not assume bar data exists yet;
// OnBar runs once per simulated trading day that has at least one bar.
type Strategy interface {
	Name() string
	Description() string
	OnInit(ctx *Context) error
	OnBar(ctx *Context, bars *DayBars) error
}
