// Package datasource defines the market-data interface the backtest
// engine consumes and shared helpers for its implementations.
package datasource

import (
	"context"
	"time"

	"github.com/trademaster/trademaster/internal/core"
)

// DataSource provides historical daily bars for stocks and indexes.
// Implementations return bars sorted by date ascending. An empty slice
// signals "no data for the range", never an error: the engine treats it
// as a benign skip.
type DataSource interface {
	GetDailyBars(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error)
	GetIndexDaily(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error)
}
