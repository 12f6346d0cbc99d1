package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/trademaster/trademaster/internal/backtest"
	"github.com/trademaster/trademaster/internal/core"
)

// resultDocument is the archived form of a backtest result. Benchmark
// values before the first observation are null rather than NaN so the
// document stays valid JSON.
type resultDocument struct {
	ID        string    `json:"id"`
	Strategy  string    `json:"strategy"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`

	EquityCurve []float64             `json:"equity_curve"`
	Baselines   map[string][]*float64 `json:"baselines"`
	Dates       []time.Time           `json:"dates"`
	Trades      []core.Trade          `json:"trades"`
}

func resultPath(id string) string {
	return fmt.Sprintf("backtests/%s.json", id)
}

// SaveResult writes the result as a JSON document keyed by its run ID.
func SaveResult(ctx context.Context, store Storage, res *backtest.Result) error {
	doc := resultDocument{
		ID:          res.ID,
		Strategy:    res.Strategy,
		StartDate:   res.StartDate,
		EndDate:     res.EndDate,
		TotalReturn: res.TotalReturn,
		MaxDrawdown: res.MaxDrawdown,
		SharpeRatio: res.SharpeRatio,
		EquityCurve: res.EquityCurve,
		Baselines:   make(map[string][]*float64, len(res.Baselines)),
		Dates:       res.Dates,
		Trades:      res.Trades,
	}

	for code, series := range res.Baselines {
		vals := make([]*float64, len(series))
		for i, v := range series {
			if !math.IsNaN(v) {
				val := v
				vals[i] = &val
			}
		}
		doc.Baselines[code] = vals
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result %s: %w", res.ID, err)
	}
	return store.Write(ctx, resultPath(res.ID), data)
}

// LoadResult reads an archived result back by run ID. Null benchmark
// entries become NaN again.
func LoadResult(ctx context.Context, store Storage, id string) (*backtest.Result, error) {
	data, err := store.Read(ctx, resultPath(id))
	if err != nil {
		return nil, err
	}

	var doc resultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling result %s: %w", id, err)
	}

	res := &backtest.Result{
		ID:          doc.ID,
		Strategy:    doc.Strategy,
		StartDate:   doc.StartDate,
		EndDate:     doc.EndDate,
		TotalReturn: doc.TotalReturn,
		MaxDrawdown: doc.MaxDrawdown,
		SharpeRatio: doc.SharpeRatio,
		EquityCurve: doc.EquityCurve,
		Baselines:   make(map[string][]float64, len(doc.Baselines)),
		Dates:       doc.Dates,
		Trades:      doc.Trades,
	}

	for code, series := range doc.Baselines {
		vals := make([]float64, len(series))
		for i, v := range series {
			if v == nil {
				vals[i] = math.NaN()
			} else {
				vals[i] = *v
			}
		}
		res.Baselines[code] = vals
	}

	return res, nil
}

// ListResults returns the IDs of all archived results.
func ListResults(ctx context.Context, store Storage) ([]string, error) {
	paths, err := store.List(ctx, "backtests")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasPrefix(p, "backtests/") && strings.HasSuffix(p, ".json") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(p, "backtests/"), ".json"))
		}
	}
	return ids, nil
}
