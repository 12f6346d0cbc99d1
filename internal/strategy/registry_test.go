package strategy

import (
	"errors"
	"testing"

	"github.com/trademaster/trademaster/internal/core"
)

type stubStrategy struct {
	name string
}

func (s *stubStrategy) Name() string                         { return s.name }
func (s *stubStrategy) Description() string                  { return "stub" }
func (s *stubStrategy) OnInit(ctx *Context) error            { return nil }
func (s *stubStrategy) OnBar(ctx *Context, b *DayBars) error { return nil }

func TestRegistry_CreateKnown(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} })

	s, err := r.Create("stub")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Name() != "stub" {
		t.Errorf("Name = %q, want stub", s.Name())
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create("nope")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !errors.Is(err, core.ErrUnknownStrategy) {
		t.Errorf("error = %v, want UNKNOWN_STRATEGY", err)
	}
}

func TestRegistry_CreateReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} })

	a, _ := r.Create("stub")
	b, _ := r.Create("stub")
	if a == b {
		t.Error("Create must return a new instance per call")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("b", func() Strategy { return &stubStrategy{name: "b"} })
	r.Register("a", func() Strategy { return &stubStrategy{name: "a"} })

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", names)
	}
}

func TestDayBars_InsertionOrder(t *testing.T) {
	d := NewDayBars()
	d.Add("sh600000", core.Bar{Code: "sh600000", Close: 10})
	d.Add("sz000001", core.Bar{Code: "sz000001", Close: 20})
	d.Add("sh600519", core.Bar{Code: "sh600519", Close: 30})

	want := []string{"sh600000", "sz000001", "sh600519"}
	got := d.Codes()
	if len(got) != len(want) {
		t.Fatalf("Codes length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Codes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDayBars_AddReplacesWithoutReordering(t *testing.T) {
	d := NewDayBars()
	d.Add("a", core.Bar{Code: "a", Close: 1})
	d.Add("b", core.Bar{Code: "b", Close: 2})
	d.Add("a", core.Bar{Code: "a", Close: 9})

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	if d.Codes()[0] != "a" {
		t.Errorf("Codes[0] = %q, want a", d.Codes()[0])
	}
	bar, ok := d.Get("a")
	if !ok || bar.Close != 9 {
		t.Errorf("Get(a) = %v, want Close 9", bar)
	}
}
