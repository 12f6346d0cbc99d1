// Package noop provides a reference strategy that never trades. It is
// useful as a baseline and for exercising the engine loop in isolation.
package noop

import (
	"github.com/trademaster/trademaster/internal/strategy"
)

// Noop implements strategy.Strategy and does nothing.
type Noop struct{}

// New creates a Noop strategy.
func New() *Noop {
	return &Noop{}
}

func (n *Noop) Name() string {
	return "noop"
}

func (n *Noop) Description() string {
	return "Holds cash, never trades"
}

func (n *Noop) OnInit(ctx *strategy.Context) error {
	return nil
}

func (n *Noop) OnBar(ctx *strategy.Context, bars *strategy.DayBars) error {
	return nil
}
