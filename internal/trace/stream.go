package trace

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"
)

// StreamTracer writes each admitted event as it happens. Output is
// buffered and flushed at stage boundaries so a --trace file is readable
// while a long log is still being scanned.
type StreamTracer struct {
	mu        sync.Mutex
	out       io.Writer
	bw        *bufio.Writer
	level     Level
	format    Format
	start     time.Time
	failed    int
	firstFail error
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		out:    w,
		bw:     bufio.NewWriterSize(w, 16<<10),
		level:  level,
		format: format,
		start:  time.Now(),
	}
}

// Emit writes ev. Write failures never reach the pipeline; they are counted
// and reported by Close.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	data := FormatEvent(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.bw.Write(data); err != nil {
		t.fail(err)
		return
	}
	if ev.Scope <= ScopeStage {
		if err := t.bw.Flush(); err != nil {
			t.fail(err)
		}
	}
}

func (t *StreamTracer) fail(err error) {
	if t.failed == 0 {
		t.firstFail = err
	}
	t.failed++
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bw.Flush()
}

// Close flushes, closes the underlying writer when it is an io.Closer and
// reports dropped writes.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.bw.Flush(); err != nil {
		return err
	}
	if closer, ok := t.out.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	if t.failed > 0 {
		return fmt.Errorf("%d trace writes failed: %w", t.failed, t.firstFail)
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
