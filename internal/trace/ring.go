package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer is a flight recorder: it keeps the newest events in memory
// and dumps them when a run fails (exit 1 or --strict with errors).
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // событий принято за всё время
	level Level
}

const defaultRingSize = 4096

// NewRingTracer keeps up to capacity events; capacity <= 0 means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores events allowed by the level. Heartbeats are always kept.
func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = stored
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *RingTracer) snapshotLocked() []Event {
	n := uint64(len(t.buf))
	if t.total <= n {
		return append([]Event(nil), t.buf[:t.total]...)
	}
	start := t.total % n
	out := make([]Event, 0, n)
	out = append(out, t.buf[start:]...)
	return append(out, t.buf[:start]...)
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - uint64(len(t.snapshotLocked()))
}

// Dump writes the kept events to w, preceded by a line counting the
// overwritten ones if any. Text timestamps are relative to the oldest
// event kept.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	t.mu.Lock()
	events := t.snapshotLocked()
	dropped := t.total - uint64(len(events))
	t.mu.Unlock()

	if len(events) == 0 {
		return nil
	}
	if dropped > 0 && format == FormatText {
		if _, err := fmt.Fprintf(w, "... %d earlier events dropped\n", dropped); err != nil {
			return err
		}
	}
	origin := events[0].Time
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format, origin)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
