// Package progress carries per-file progress events from the batch
// runner to whoever renders them (the TUI, or nothing).
package progress

import "time"

// Stage describes one step of processing an input file.
type Stage string

const (
	// StageLoad reads and normalizes the input file.
	StageLoad Stage = "load"
	// StageParse splits the file into records.
	StageParse Stage = "parse"
	// StageEval runs the arithmetic.
	StageEval Stage = "eval"
	// StageWrite writes the result file.
	StageWrite Stage = "write"
)

// Stages lists the stages in processing order.
var Stages = []Stage{StageLoad, StageParse, StageEval, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Done and Total count records during StageEval.
	Done, Total int
}

// Sink consumes progress events. Implementations must be safe for
// concurrent use: files report from their own goroutines.
type Sink interface {
	OnEvent(Event)
}

// Timings holds stage durations of one file.
type Timings struct {
	stages map[Stage]time.Duration
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration, len(Stages))
	}
	t.stages[stage] = dur
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages,
// or across all stages when none are given.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
