package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RingTracer keeps the most recent events for a dump after a panic or a
// fatal input error. Older events are overwritten and counted.
type RingTracer struct {
	mu      sync.Mutex
	buf     []Event
	next    int
	wrapped bool
	dropped uint64
	level   Level
	start   time.Time
}

// NewRingTracer returns a ring holding up to capacity events (4096 when
// capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level, start: time.Now()}
}

// Emit stores ev. At LevelError only run and stage boundaries are kept.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && (t.level != LevelError || ev.Scope > ScopeStage) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.wrapped {
		t.dropped++
	}
	t.buf[t.next] = *ev
	t.next++
	if t.next == len(t.buf) {
		t.next = 0
		t.wrapped = true
	}
}

// Len returns the number of events currently held.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.wrapped {
		return len(t.buf)
	}
	return t.next
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.wrapped {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the held events to w, preceded by a note when older events
// were overwritten.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	t.mu.Lock()
	dropped := t.dropped
	t.mu.Unlock()
	if dropped > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "(%d earlier events overwritten)\n", dropped); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format, t.start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
