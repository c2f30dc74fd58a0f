package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "2 files")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Name != "load" || r.Phases[0].Note != "2 files" {
		t.Fatalf("report = %+v", r)
	}
}

func TestTimerAddConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			tm.Add("eval", time.Millisecond)
			tm.Count("records", 1000)
		})
	}
	wg.Wait()

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].Runs != 8 || r.Phases[0].DurationMS != 8 {
		t.Fatalf("eval phase = %+v", r.Phases[0])
	}
	if r.Counters["records"] != 8000 {
		t.Fatalf("records = %d", r.Counters["records"])
	}

	s := tm.Summary()
	for _, want := range []string{"eval", "x8", "records", "8,000", "wall"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestReportDoesNotAlias(t *testing.T) {
	tm := NewTimer()
	tm.Count("files", 1)
	r := tm.Report()
	r.Counters["files"] = 42
	if tm.Report().Counters["files"] != 1 {
		t.Fatal("Report leaked the internal counter map")
	}
}
