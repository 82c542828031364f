package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecordPreservesOrder(t *testing.T) {
	r := NewRecorder()
	r.Record("diff", 10*time.Millisecond)
	r.Record("generate", 2*time.Second)
	r.Record("commit", 50*time.Millisecond)

	timings := r.Timings()
	want := []string{"diff", "generate", "commit"}
	if len(timings) != len(want) {
		t.Fatalf("expected %d timings, got %d", len(want), len(timings))
	}
	for i, stage := range want {
		if timings[i].Stage != stage {
			t.Errorf("timing %d = %q, want %q", i, timings[i].Stage, stage)
		}
	}
}

func TestObserveRecordsAndPropagates(t *testing.T) {
	r := NewRecorder()
	sentinel := errors.New("stage failed")

	if err := r.Observe("generate", func() error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("Observe must return the stage error unchanged, got %v", err)
	}
	if err := r.Observe("parse", func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if len(r.Timings()) != 2 {
		t.Errorf("both stages should be recorded, got %d", len(r.Timings()))
	}
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *Recorder
	r.Record("diff", time.Second)

	ran := false
	if err := r.Observe("generate", func() error { ran = true; return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("nil recorder must still run the stage function")
	}
	if r.Timings() != nil {
		t.Error("nil recorder has no timings")
	}
}

func TestSummaryTotals(t *testing.T) {
	r := NewRecorder()
	r.Record("diff", 100*time.Millisecond)
	r.Record("generate", 900*time.Millisecond)

	s := r.Summary("ollama", "llama3.1")
	if s.Total != time.Second {
		t.Errorf("Total = %v, want 1s", s.Total)
	}
	if s.Backend != "ollama" || s.Model != "llama3.1" {
		t.Errorf("summary should carry backend and model: %+v", s)
	}
}

func TestSummaryText(t *testing.T) {
	r := NewRecorder()
	r.Record("generate", 1500*time.Millisecond)

	var b strings.Builder
	if err := r.Summary("jan", "llama 3.1").Text(&b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Analytics:", "jan", "llama 3.1", "generate", "1.50s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
