package core

import (
	"testing"
	"time"
)

func TestBar_IsValid(t *testing.T) {
	tests := []struct {
		name string
		b    Bar
		want bool
	}{
		{"valid", Bar{Code: "600519.SH", Date: time.Now(), Close: 1680.50}, true},
		{"empty code", Bar{Date: time.Now(), Close: 10}, false},
		{"zero date", Bar{Code: "600519.SH", Close: 10}, false},
		{"zero close", Bar{Code: "600519.SH", Date: time.Now()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirection_Constants(t *testing.T) {
	directions := []Direction{Buy, Sell}
	expected := []string{"BUY", "SELL"}

	for i, d := range directions {
		if string(d) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], d)
		}
	}
}

func TestPosition_MarketValue(t *testing.T) {
	p := Position{Code: "600519.SH", Quantity: 200, AvgCost: 10.0, CurrentPrice: 12.5}
	if got := p.MarketValue(); got != 2500 {
		t.Errorf("MarketValue() = %v, want 2500", got)
	}
}

func TestPosition_UnrealizedPnL(t *testing.T) {
	p := Position{Code: "600519.SH", Quantity: 200, AvgCost: 10.0, CurrentPrice: 12.5}
	if got := p.UnrealizedPnL(); got != 500 {
		t.Errorf("UnrealizedPnL() = %v, want 500", got)
	}

	losing := Position{Code: "000001.SZ", Quantity: 100, AvgCost: 10.0, CurrentPrice: 9.0}
	if got := losing.UnrealizedPnL(); got != -100 {
		t.Errorf("UnrealizedPnL() = %v, want -100", got)
	}
}
