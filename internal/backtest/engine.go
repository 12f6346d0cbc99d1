// Package backtest runs a strategy against historical daily bars and
// produces a performance result with benchmark comparisons.
package backtest

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/datasource"
	"github.com/trademaster/trademaster/internal/metrics"
	"github.com/trademaster/trademaster/internal/portfolio"
	"github.com/trademaster/trademaster/internal/strategy"
	"go.uber.org/zap"
)

// Engine orchestrates one backtest run: strategy initialization, the
// calendar-day loop over pre-fetched bars, portfolio bookkeeping, and
// result assembly. The run is single-threaded; the portfolio has exactly
// one writer for its whole lifetime.
type Engine struct {
	cfg     Config
	source  datasource.DataSource
	strat   strategy.Strategy
	pf      *portfolio.Portfolio
	sctx    *strategy.Context
	logger  *zap.Logger
	metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine for one run. The config is treated as immutable.
func New(cfg Config, source datasource.DataSource, strat strategy.Strategy, opts ...Option) *Engine {
	pf := portfolio.New(cfg.InitialCash)
	e := &Engine{
		cfg:    cfg,
		source: source,
		strat:  strat,
		pf:     pf,
		sctx:   &strategy.Context{Portfolio: pf},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the backtest. Errors from the strategy or the data source
// propagate unmodified; an empty data result is a benign skip, never an
// error. A failed run returns no Result.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result, err := e.run(ctx)
	if e.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		e.metrics.RecordBacktest(status, time.Since(started).Seconds())
	}
	return result, err
}

func (e *Engine) run(ctx context.Context) (*Result, error) {
	if err := e.strat.OnInit(e.sctx); err != nil {
		return nil, err
	}

	tables, err := e.prefetch(ctx)
	if err != nil {
		return nil, err
	}

	dates, err := e.walk(ctx, tables)
	if err != nil {
		return nil, err
	}

	baselines, err := e.fetchBaselines(ctx, dates)
	if err != nil {
		return nil, err
	}

	totalReturn := (e.pf.TotalValue() - e.cfg.InitialCash) / e.cfg.InitialCash

	history := e.pf.History()
	equity := make([]float64, len(history))
	for i, v := range history {
		equity[i] = v / e.cfg.InitialCash
	}

	e.logger.Info("backtest completed",
		zap.String("strategy", e.strat.Name()),
		zap.Int("trading_days", len(dates)),
		zap.Int("trades", len(e.pf.Trades())),
		zap.Float64("total_return", totalReturn),
	)

	return &Result{
		ID:          uuid.NewString(),
		Strategy:    e.strat.Name(),
		StartDate:   e.cfg.StartDate,
		EndDate:     e.cfg.EndDate,
		TotalReturn: totalReturn,
		MaxDrawdown: MaxDrawdown(equity),
		SharpeRatio: SharpeRatio(equity),
		EquityCurve: equity,
		Baselines:   baselines,
		Dates:       dates,
		Trades:      e.pf.Trades(),
	}, nil
}

// prefetch loads the full bar history for every universe code once and
// indexes it by day. Codes with no data never appear in any day's bars.
func (e *Engine) prefetch(ctx context.Context) (map[string]map[time.Time]core.Bar, error) {
	tables := make(map[string]map[time.Time]core.Bar, len(e.cfg.Universe))

	for _, code := range e.cfg.Universe {
		bars, err := e.source.GetDailyBars(ctx, code, e.cfg.StartDate, e.cfg.EndDate)
		if e.metrics != nil {
			e.metrics.RecordDataFetch("bars", err)
		}
		if err != nil {
			return nil, err
		}
		if len(bars) == 0 {
			e.logger.Warn("no bars for code, skipping", zap.String("code", code))
			continue
		}

		table := make(map[time.Time]core.Bar, len(bars))
		for _, b := range bars {
			table[dayOf(b.Date)] = b
		}
		tables[code] = table
	}

	return tables, nil
}

// walk iterates calendar days from start to end inclusive. A day with at
// least one bar runs the full price-update / on-bar / snapshot sequence
// as an atomic unit; a day with none is skipped entirely. Weekends,
// holidays, and data outages are indistinguishable here: absence of bars
// is the only signal.
func (e *Engine) walk(ctx context.Context, tables map[string]map[time.Time]core.Bar) ([]time.Time, error) {
	var dates []time.Time

	end := dayOf(e.cfg.EndDate)
	for d := dayOf(e.cfg.StartDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dayBars := strategy.NewDayBars()
		for _, code := range e.cfg.Universe {
			if bar, ok := tables[code][d]; ok {
				dayBars.Add(code, bar)
			}
		}
		if dayBars.Len() == 0 {
			continue
		}

		for _, code := range dayBars.Codes() {
			bar, _ := dayBars.Get(code)
			e.pf.UpdatePrice(code, bar.Close)
		}

		tradesBefore := len(e.pf.Trades())
		if err := e.strat.OnBar(e.sctx, dayBars); err != nil {
			return nil, err
		}

		e.pf.RecordDailyValue()
		dates = append(dates, d)

		if e.metrics != nil {
			e.metrics.RecordBarsProcessed(dayBars.Len())
			for _, t := range e.pf.Trades()[tradesBefore:] {
				e.metrics.RecordTrade(string(t.Direction))
			}
		}
	}

	return dates, nil
}

// fetchBaselines fetches each benchmark series, reindexes it onto the
// recorded simulation dates with forward-fill, and normalizes it by its
// first available value. Benchmarks with no overlapping data are dropped
// with a warning.
func (e *Engine) fetchBaselines(ctx context.Context, dates []time.Time) (map[string][]float64, error) {
	baselines := make(map[string][]float64, len(e.cfg.Baselines))

	for _, code := range e.cfg.Baselines {
		series, err := e.source.GetIndexDaily(ctx, code, e.cfg.StartDate, e.cfg.EndDate)
		if e.metrics != nil {
			e.metrics.RecordDataFetch("index", err)
		}
		if err != nil {
			return nil, err
		}

		aligned := alignToDates(series, dates)
		normalized, ok := normalizeSeries(aligned)
		if !ok {
			e.logger.Warn("baseline has no data in range, dropping", zap.String("code", code))
			continue
		}
		baselines[code] = normalized
	}

	return baselines, nil
}

// alignToDates forward-fills the series' close prices onto dates. Dates
// before the first observation stay NaN.
func alignToDates(series []core.Bar, dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	last := math.NaN()
	j := 0

	for i, d := range dates {
		for j < len(series) && !dayOf(series[j].Date).After(d) {
			last = series[j].Close
			j++
		}
		out[i] = last
	}

	return out
}

// normalizeSeries divides every value by the first non-NaN value so the
// series reads as a growth factor. Returns false when the series has no
// valid value at all.
func normalizeSeries(vals []float64) ([]float64, bool) {
	base := math.NaN()
	for _, v := range vals {
		if !math.IsNaN(v) {
			base = v
			break
		}
	}
	if math.IsNaN(base) || base == 0 {
		return nil, false
	}

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v / base
	}
	return out, true
}

// dayOf truncates a timestamp to its UTC calendar day, the engine's
// canonical date key.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
