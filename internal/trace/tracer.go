package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives the run, stage, batch and record events of a parse.
// Implementations are shared by the analyze workers and must be safe for
// concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode is the value of --trace-mode.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write events as they happen
	ModeRing                          // keep the tail for a crash or fatal-error dump
	ModeBoth
)

var modeNames = map[string]StorageMode{
	"stream": ModeStream,
	"ring":   ModeRing,
	"both":   ModeBoth,
}

func (m StorageMode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

func (m StorageMode) streams() bool { return m == ModeStream || m == ModeBoth }
func (m StorageMode) rings() bool   { return m == ModeRing || m == ModeBoth }

// ParseMode accepts stream, ring or both in any case.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// DefaultRingEvents holds roughly the stage events of a run plus the last few
// thousand record events at debug level.
const DefaultRingEvents = 4096

// Config mirrors the --trace* flags of the CLI.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output takes precedence over Path and is never closed.
	Output io.Writer
	// Path is the --trace destination; "" and "-" mean stderr. A .ndjson or
	// .jsonl suffix selects NDJSON when Format is FormatAuto.
	Path string
	// RingEvents is the ring capacity; 0 means DefaultRingEvents.
	RingEvents int
}

func (c Config) format() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	if strings.HasSuffix(c.Path, ".ndjson") || strings.HasSuffix(c.Path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer for one CLI invocation. At LevelOff it returns Nop
// and opens nothing. With ModeBoth the result is a *MultiTracer whose Ring
// the CLI keeps for dumping.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if !cfg.Mode.streams() && !cfg.Mode.rings() {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var sinks []Tracer
	if cfg.Mode.streams() {
		w, err := traceOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, cfg.format()))
	}
	if cfg.Mode.rings() {
		n := cfg.RingEvents
		if n <= 0 {
			n = DefaultRingEvents
		}
		sinks = append(sinks, NewRingTracer(n, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiTracer(cfg.Level, sinks...), nil
}

// unclosed hides the Close method of writers the tracer does not own.
type unclosed struct{ io.Writer }

func traceOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return unclosed{cfg.Output}, nil
	case cfg.Path == "" || cfg.Path == "-":
		return unclosed{os.Stderr}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// Nop is installed when --trace-level is off. Spans begun on it carry no id
// and cost a time.Now call.
var Nop Tracer = off{}

type off struct{}

func (off) Emit(*Event)   {}
func (off) Flush() error  { return nil }
func (off) Close() error  { return nil }
func (off) Level() Level  { return LevelOff }
func (off) Enabled() bool { return false }
