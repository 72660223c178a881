package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"swiftconcur/internal/driver"
	"swiftconcur/internal/trace"
	"swiftconcur/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swiftconcur",
		Short: "Swift concurrency warning analysis for CI",
		Long: `swiftconcur reads Swift compiler output (build logs, xcodebuild or
xcresult JSON), classifies concurrency warnings, compares them with a
baseline and gates CI on a threshold.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupColor(cmd); err != nil {
				return err
			}
			stopTrace, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			deferCleanup(stopTrace)
			stopProf, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			deferCleanup(stopProf)
			return nil
		},
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newVersionCmd())

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize stderr output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential stderr output")
	pf.Bool("timings", false, "print per-stage timings to stderr")
	pf.BoolP("verbose", "v", false, "trace pipeline stages to stderr (same as --trace - --trace-level detail)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingEvents, "events kept in ring mode")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

// cleanups run on every exit path, including errors that skip PostRun.
var cleanups []func()

func deferCleanup(fn func()) {
	if fn != nil {
		cleanups = append(cleanups, fn)
	}
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// exitCodeError ends the process with code and no message.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs one CLI invocation and returns its exit status: 0 success,
// 1 threshold exceeded, 2 for every other failure including usage errors.
func execute(args []string, stdout, stderr io.Writer) int {
	defer func() {
		if r := recover(); r != nil {
			dumpTraceRing(stderr)
			runCleanups()
			panic(r)
		}
	}()
	defer runCleanups()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	printError(stderr, err)
	code := driver.ExitCode(err)
	if code == 2 {
		dumpTraceRing(stderr)
	}
	return code
}
