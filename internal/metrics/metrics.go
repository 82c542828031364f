// Package metrics records per-stage wall-clock timings for a single run
// and renders the optional analytics summary. It is purely observational:
// a nil Recorder is a valid no-op and never changes pipeline behavior.
package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// StageTiming is one measured pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Recorder accumulates stage timings in arrival order.
type Recorder struct {
	mu      sync.Mutex
	timings []StageTiming
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one stage timing. Safe on a nil receiver.
func (r *Recorder) Record(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.timings = append(r.timings, StageTiming{Stage: stage, Duration: d})
	r.mu.Unlock()
}

// Observe times fn and records it under stage. The function's error is
// returned unchanged; timing is recorded either way. Safe on a nil
// receiver, in which case fn simply runs.
func (r *Recorder) Observe(stage string, fn func() error) error {
	if r == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	r.Record(stage, time.Since(start))
	return err
}

// Timings returns a copy of the recorded stages in order.
func (r *Recorder) Timings() []StageTiming {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StageTiming, len(r.timings))
	copy(out, r.timings)
	return out
}

// Summary is the analytics report emitted at process exit.
type Summary struct {
	Backend string
	Model   string
	Timings []StageTiming
	Total   time.Duration
}

// Summary builds the report for the given backend variant and model.
func (r *Recorder) Summary(backendName, model string) Summary {
	timings := r.Timings()
	var total time.Duration
	for _, t := range timings {
		total += t.Duration
	}
	return Summary{Backend: backendName, Model: model, Timings: timings, Total: total}
}

// Text writes the human-readable analytics report.
func (s Summary) Text(w io.Writer) error {
	p := termenv.NewOutput(w).ColorProfile()
	header := termenv.String("Analytics:").Bold()
	dim := func(v string) termenv.Style {
		return termenv.String(v).Foreground(p.Color("8"))
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", header); err != nil {
		return err
	}
	fmt.Fprintf(w, "  Inference used: %s\n", s.Backend)
	fmt.Fprintf(w, "  Model name: %s\n", s.Model)
	for _, t := range s.Timings {
		fmt.Fprintf(w, "  %-10s %s\n", t.Stage, dim(fmt.Sprintf("%.2fs", t.Duration.Seconds())))
	}
	fmt.Fprintf(w, "  %-10s %s\n", "total", dim(fmt.Sprintf("%.2fs", s.Total.Seconds())))
	fmt.Fprintln(w)
	return nil
}
