package equalweight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/portfolio"
	"github.com/trademaster/trademaster/internal/strategy"
)

func newContext(cash float64) *strategy.Context {
	return &strategy.Context{Portfolio: portfolio.New(cash)}
}

func bars(t time.Time, closes map[string]float64, order ...string) *strategy.DayBars {
	d := strategy.NewDayBars()
	for _, code := range order {
		d.Add(code, core.Bar{Code: code, Date: t, Close: closes[code]})
	}
	return d
}

func TestOnInit_Defaults(t *testing.T) {
	e := New()
	require.NoError(t, e.OnInit(newContext(10000)))

	assert.Equal(t, 5, e.maxPositions)
	assert.Equal(t, 0.05, e.takeProfit)
	assert.Equal(t, -0.02, e.stopLoss)
}

func TestOnBar_BuysEqualSlicesInUniverseOrder(t *testing.T) {
	e := New(WithMaxPositions(2))
	ctx := newContext(10000)
	require.NoError(t, e.OnInit(ctx))

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 10, "bbb": 20, "ccc": 5}, "aaa", "bbb", "ccc")

	require.NoError(t, e.OnBar(ctx, b))

	// Slice = 10000/2 = 5000. aaa: 5000/(10*100)=5 lots -> 500 shares.
	// bbb never fills: position cap reached after aaa and... cap is 2, so
	// bbb buys 5000/(20*100)=2 lots -> 200 shares. ccc skipped at cap.
	require.Equal(t, 2, ctx.Portfolio.NumPositions())

	aaa, ok := ctx.Portfolio.Position("aaa")
	require.True(t, ok)
	assert.Equal(t, int64(500), aaa.Quantity)

	bbb, ok := ctx.Portfolio.Position("bbb")
	require.True(t, ok)
	assert.Equal(t, int64(200), bbb.Quantity)

	assert.False(t, ctx.Portfolio.Holds("ccc"))
}

func TestOnBar_SkipsZeroLotQuantity(t *testing.T) {
	e := New(WithMaxPositions(5))
	ctx := newContext(10000)
	require.NoError(t, e.OnInit(ctx))

	// Slice = 2000; price 30 -> 2000/(30*100) = 0 lots.
	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 30}, "aaa")

	require.NoError(t, e.OnBar(ctx, b))
	assert.Equal(t, 0, ctx.Portfolio.NumPositions())
	assert.Empty(t, ctx.Portfolio.Trades())
}

func TestOnBar_TakeProfitExit(t *testing.T) {
	e := New()
	ctx := newContext(10000)
	require.NoError(t, e.OnInit(ctx))

	ctx.Portfolio.ExecuteTrade(core.Trade{
		Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		Code: "aaa", Direction: core.Buy,
		Quantity: 100, Price: 10, Cost: 1000,
	})

	// +6% > +5% threshold: full exit at close.
	day := time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 10.6}, "aaa")
	require.NoError(t, e.OnBar(ctx, b))

	assert.False(t, ctx.Portfolio.Holds("aaa"))
	trades := ctx.Portfolio.Trades()
	last := trades[len(trades)-1]
	assert.Equal(t, core.Sell, last.Direction)
	assert.Equal(t, int64(100), last.Quantity)
	assert.Equal(t, 10.6, last.Price)
	assert.Zero(t, last.Commission)
}

func TestOnBar_StopLossExit(t *testing.T) {
	e := New()
	ctx := newContext(10000)
	require.NoError(t, e.OnInit(ctx))

	ctx.Portfolio.ExecuteTrade(core.Trade{
		Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		Code: "aaa", Direction: core.Buy,
		Quantity: 100, Price: 10, Cost: 1000,
	})

	// -3% < -2% threshold.
	day := time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 9.7}, "aaa")
	require.NoError(t, e.OnBar(ctx, b))

	assert.False(t, ctx.Portfolio.Holds("aaa"))
}

func TestOnBar_HoldsInsideThresholds(t *testing.T) {
	e := New(WithMaxPositions(1))
	ctx := newContext(1000)
	require.NoError(t, e.OnInit(ctx))

	ctx.Portfolio.ExecuteTrade(core.Trade{
		Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		Code: "aaa", Direction: core.Buy,
		Quantity: 100, Price: 10, Cost: 1000,
	})

	// +2% sits inside (-2%, +5%): no exit, and the cap blocks entries.
	day := time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 10.2}, "aaa")
	require.NoError(t, e.OnBar(ctx, b))

	assert.True(t, ctx.Portfolio.Holds("aaa"))
	assert.Len(t, ctx.Portfolio.Trades(), 1)
}

func TestOnBar_RespectsCashConstraint(t *testing.T) {
	e := New(WithMaxPositions(3))
	ctx := newContext(10000)
	require.NoError(t, e.OnInit(ctx))

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	b := bars(day, map[string]float64{"aaa": 10}, "aaa")
	require.NoError(t, e.OnBar(ctx, b))

	// A later day where remaining cash sits below the slice target must
	// not open a new position even though a slot is free.
	day2 := day.AddDate(0, 0, 1)
	b2 := bars(day2, map[string]float64{"aaa": 10, "bbb": 1}, "aaa", "bbb")

	// Drain cash below the target slice.
	ctx.Portfolio.ExecuteTrade(core.Trade{
		Date: day2, Code: "zzz", Direction: core.Buy,
		Quantity: 100, Price: 40, Cost: 4000,
	})

	require.NoError(t, e.OnBar(ctx, b2))
	assert.False(t, ctx.Portfolio.Holds("bbb"))
}
