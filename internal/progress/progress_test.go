package progress

import (
	"context"
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Sum() != 0 || tm.Duration(StageEval) != 0 {
		t.Fatal("zero Timings must report zero")
	}
	tm.Set(StageLoad, time.Millisecond)
	tm.Set(StageEval, 3*time.Millisecond)
	if got := tm.Sum(); got != 4*time.Millisecond {
		t.Fatalf("Sum() = %v", got)
	}
	if got := tm.Sum(StageEval); got != 3*time.Millisecond {
		t.Fatalf("Sum(eval) = %v", got)
	}
	var nilTimings *Timings
	nilTimings.Set(StageLoad, time.Second)
}

func TestEmit(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(context.Background(), ChannelSink{Ch: ch}, Event{File: "a", Stage: StageLoad, Status: StatusDone})
	if ev := <-ch; ev.File != "a" || ev.Status != StatusDone {
		t.Fatalf("event = %+v", ev)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	Emit(ctx, ChannelSink{Ch: ch}, Event{File: "b"})
	if len(ch) != 0 {
		t.Fatal("event sent after cancellation")
	}

	var got []Event
	Emit(context.Background(), FuncSink(func(e Event) { got = append(got, e) }), Event{File: "c"})
	Emit(context.Background(), nil, Event{File: "d"})
	if len(got) != 1 {
		t.Fatalf("FuncSink got %d events", len(got))
	}
}
