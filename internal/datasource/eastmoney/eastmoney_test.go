package eastmoney

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"600519.SH", "1.600519"},
		{"000001.SZ", "0.000001"},
		{"sh600519", "1.600519"},
		{"sz000001", "0.000001"},
		{"sh000300", "1.000300"},
		{"600519", "1.600519"},
	}

	for _, tt := range tests {
		if got := parseSymbol(tt.symbol); got != tt.want {
			t.Errorf("parseSymbol(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestGetDailyBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("secid"); got != "1.600519" {
			t.Errorf("secid = %q, want 1.600519", got)
		}
		fmt.Fprint(w, `{"data":{"code":"600519","name":"test","klines":[
			"2023-01-03,100.0,102.5,103.0,99.5,12345",
			"2023-01-04,102.5,101.0,104.0,100.5,23456"
		]}}`)
	}))
	defer server.Close()

	e := New(WithBaseURL(server.URL))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)

	bars, err := e.GetDailyBars(context.Background(), "sh600519", start, end)
	if err != nil {
		t.Fatalf("GetDailyBars() error = %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}

	first := bars[0]
	if first.Code != "sh600519" {
		t.Errorf("Code = %q, want sh600519", first.Code)
	}
	if first.Open != 100.0 || first.Close != 102.5 || first.High != 103.0 || first.Low != 99.5 {
		t.Errorf("unexpected OHLC: %+v", first)
	}
	if first.Volume != 12345 {
		t.Errorf("Volume = %d, want 12345", first.Volume)
	}
	if !first.Date.Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2023-01-03", first.Date)
	}
}

func TestGetDailyBars_EmptyPayloadIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null}`)
	}))
	defer server.Close()

	e := New(WithBaseURL(server.URL))
	bars, err := e.GetDailyBars(context.Background(), "sh600519", time.Now().AddDate(0, 0, -5), time.Now())
	if err != nil {
		t.Fatalf("empty payload must not error, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars, want 0", len(bars))
	}
}

func TestGetDailyBars_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := New(WithBaseURL(server.URL))
	_, err := e.GetDailyBars(context.Background(), "sh600519", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGetIndexDaily_UsesUnadjustedPrices(t *testing.T) {
	var gotFqt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFqt = r.URL.Query().Get("fqt")
		fmt.Fprint(w, `{"data":{"code":"000300","name":"idx","klines":["2023-01-03,100,101,102,99,1"]}}`)
	}))
	defer server.Close()

	e := New(WithBaseURL(server.URL))
	bars, err := e.GetIndexDaily(context.Background(), "sh000300", time.Now().AddDate(0, 0, -5), time.Now())
	if err != nil {
		t.Fatalf("GetIndexDaily() error = %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if gotFqt != "0" {
		t.Errorf("fqt = %q, want 0", gotFqt)
	}
}
