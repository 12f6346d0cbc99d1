// Package report renders backtest results as standalone HTML charts.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/trademaster/trademaster/internal/backtest"
)

// Renderer writes one HTML file per result into its output directory.
type Renderer struct {
	outputDir string
}

// NewRenderer creates the output directory if needed.
func NewRenderer(outputDir string) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &Renderer{outputDir: outputDir}, nil
}

// Render draws the equity curve against every benchmark on one line chart
// and returns the path of the written file. All series share the result's
// date axis; benchmark values before their first observation render as
// gaps.
func (r *Renderer) Render(res *backtest.Result) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s backtest", res.Strategy),
			Subtitle: fmt.Sprintf("return %.2f%%  max drawdown %.2f%%  sharpe %.2f",
				res.TotalReturn*100, res.MaxDrawdown*100, res.SharpeRatio),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
	)

	dates := make([]string, len(res.Dates))
	for i, d := range res.Dates {
		dates[i] = d.Format("2006-01-02")
	}
	line.SetXAxis(dates)

	line.AddSeries(res.Strategy, lineData(res.EquityCurve),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	codes := make([]string, 0, len(res.Baselines))
	for code := range res.Baselines {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		line.AddSeries(code, lineData(res.Baselines[code]),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}

	path := filepath.Join(r.outputDir, res.ID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return path, nil
}

// lineData converts a series to chart points, mapping NaN to null so the
// chart shows a gap instead of a bogus zero.
func lineData(vals []float64) []opts.LineData {
	data := make([]opts.LineData, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			data[i] = opts.LineData{Value: nil}
		} else {
			data[i] = opts.LineData{Value: v}
		}
	}
	return data
}
