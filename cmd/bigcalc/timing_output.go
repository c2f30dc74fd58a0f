package main

import (
	"fmt"
	"io"
	"time"

	"bigcalc/internal/batch"
	"bigcalc/internal/observ"
	"bigcalc/internal/progress"
)

// printTimings prints stage durations per file followed by the timer
// summary (summed over files, so it can exceed wall time).
func printTimings(out io.Writer, res *batch.Result, timer *observ.Timer) {
	if out == nil || res == nil {
		return
	}
	for i := range res.Files {
		fr := &res.Files[i]
		fmt.Fprintf(out, "%s:", fr.Input)
		for _, stage := range progress.Stages {
			fmt.Fprintf(out, " %s %.1f ms", stage, toMillis(fr.Timings.Duration(stage)))
		}
		fmt.Fprintln(out)
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
