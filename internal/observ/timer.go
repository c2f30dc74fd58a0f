package observ

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Phase records the duration and metadata of one stage of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Runs  int // how many times Add folded a duration into this phase
	Note  string
}

// Timer tracks stage durations and counters for a run.
// Safe for concurrent use; files processed in parallel Add into the
// same named phases.
type Timer struct {
	mu       sync.Mutex
	phases   []Phase
	byName   map[string]int
	counters map[string]int64
	started  time.Time
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{
		phases:   make([]Phase, 0, 8),
		byName:   make(map[string]int, 8),
		counters: make(map[string]int64, 4),
		started:  time.Now(),
	}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	idx := len(t.phases) - 1
	t.byName[name] = idx
	return idx
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Runs++
	p.Note = note
}

// Add folds d into the phase called name, creating it on first use.
func (t *Timer) Add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.byName[name]
	if !ok {
		t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
		idx = len(t.phases) - 1
		t.byName[name] = idx
	}
	t.phases[idx].Dur += d
	t.phases[idx].Runs++
}

// Count increments counter name by n.
func (t *Timer) Count(name string, n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[name] += n
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&out, "  %-20s %9.2f ms", p.Name, p.DurationMS)
		if p.Runs > 1 {
			fmt.Fprintf(&out, "  x%s", humanize.Comma(int64(p.Runs)))
		}
		if p.Note != "" {
			out.WriteString("  // " + p.Note)
		}
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "  %-20s %9.2f ms\n", "wall", report.WallMS)
	if len(report.Counters) > 0 {
		out.WriteString("counters:\n")
		for _, name := range slices.Sorted(maps.Keys(report.Counters)) {
			fmt.Fprintf(&out, "  %-20s %12s\n", name, humanize.Comma(report.Counters[name]))
		}
	}
	return out.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Runs       int     `json:"runs,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS  float64          `json:"total_ms"` // сумма фаз; при параллельной работе больше wall
	WallMS   float64          `json:"wall_ms"`
	Phases   []PhaseReport    `json:"phases"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := Report{
		WallMS: durationToMillis(time.Since(t.started)),
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Runs:       phase.Runs,
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	if len(t.counters) > 0 {
		report.Counters = maps.Clone(t.counters)
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
