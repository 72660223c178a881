package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swiftconcur/internal/driver"
	"swiftconcur/internal/trace"
)

// activeRing is dumped to stderr on a panic or a fatal error.
var activeRing *trace.RingTracer

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose {
		if !flags.Changed("trace") {
			traceOutput = "-"
		}
		if !flags.Changed("trace-level") {
			levelStr = "detail"
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, driver.InvalidFormat(fmt.Errorf("invalid trace level: %w", err))
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, driver.InvalidFormat(fmt.Errorf("invalid trace mode: %w", err))
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, driver.InvalidFormat(err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		Path:       traceOutput,
		RingEvents: ringSize,
	})
	if err != nil {
		return nil, &driver.Error{Kind: driver.KindIO, Err: fmt.Errorf("failed to create tracer: %w", err)}
	}
	switch t := tracer.(type) {
	case *trace.RingTracer:
		activeRing = t
	case *trace.MultiTracer:
		activeRing = t.Ring()
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup := func() {
		activeRing = nil
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func dumpTraceRing(w io.Writer) {
	if activeRing == nil {
		return
	}
	fmt.Fprintln(w, "--- trace ring ---")
	if err := activeRing.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
