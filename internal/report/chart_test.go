package report

import (
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/trademaster/trademaster/internal/backtest"
)

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	day := func(n int) time.Time {
		return time.Date(2023, 1, n, 0, 0, 0, 0, time.UTC)
	}
	res := &backtest.Result{
		ID:          "run-abc",
		Strategy:    "equal_weight",
		TotalReturn: 0.05,
		EquityCurve: []float64{1.0, 1.02, 1.05},
		Baselines: map[string][]float64{
			"sh000300": {math.NaN(), 1.0, 1.01},
		},
		Dates: []time.Time{day(2), day(3), day(4)},
	}

	path, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	html := string(data)

	if !strings.Contains(html, "equal_weight") {
		t.Error("chart should name the strategy series")
	}
	if !strings.Contains(html, "sh000300") {
		t.Error("chart should name the benchmark series")
	}
	if !strings.Contains(html, "2023-01-02") {
		t.Error("chart should carry the date axis")
	}
	if strings.Contains(html, "NaN") {
		t.Error("NaN must not leak into the rendered chart")
	}
}

func TestRenderer_CreatesOutputDir(t *testing.T) {
	dir := t.TempDir() + "/nested/results"
	if _, err := NewRenderer(dir); err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}
