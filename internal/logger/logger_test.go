package logger

import "testing"

func TestNew_Development(t *testing.T) {
	log, err := New(true)
	if err != nil {
		t.Fatalf("New(true) error = %v", err)
	}
	if log == nil {
		t.Fatal("expected a logger")
	}
}

func TestNew_Production(t *testing.T) {
	log, err := New(false)
	if err != nil {
		t.Fatalf("New(false) error = %v", err)
	}
	if log == nil {
		t.Fatal("expected a logger")
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Must panicked: %v", r)
		}
	}()

	if log := Must(true); log == nil {
		t.Fatal("expected a logger")
	}
}
