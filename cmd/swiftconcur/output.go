package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"swiftconcur/internal/driver"
)

var (
	warnPrefix  = color.New(color.FgYellow, color.Bold)
	errorPrefix = color.New(color.FgRed, color.Bold)
	notePrefix  = color.New(color.FgCyan)
)

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// setupColor applies --color. Colours only ever go to stderr, so auto
// looks at stderr rather than stdout.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	case "", "auto":
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr)
	default:
		return driver.InvalidFormat(fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode))
	}
	return nil
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}

func printWarning(w io.Writer, format string, args ...any) {
	warnPrefix.Fprint(w, "warning:")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

func printNote(w io.Writer, format string, args ...any) {
	notePrefix.Fprint(w, "note:")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

func printError(w io.Writer, err error) {
	errorPrefix.Fprint(w, "error:")
	var de *driver.Error
	if errors.As(err, &de) && de.Kind != driver.KindIO {
		fmt.Fprintf(w, " [%s] %v\n", de.Kind, de.Err)
		return
	}
	fmt.Fprintf(w, " %v\n", err)
}
