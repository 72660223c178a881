package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"swiftconcur/internal/diag"
)

// Markdown writes a report grouped by severity, most severe first.
func Markdown(w io.Writer, r *diag.Report, opts MarkdownOpts) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", opts.Title)
	fmt.Fprintf(bw, "%s\n\n", summaryLine(r.TotalCount))
	if r.BuildTimeSeconds != nil {
		fmt.Fprintf(bw, "**Build time:** %.2fs\n\n", *r.BuildTimeSeconds)
	}

	if r.TotalCount > 0 {
		bw.WriteString("| Severity | Count |\n|---|---:|\n")
		for _, sev := range diag.Severities {
			fmt.Fprintf(bw, "| %s %s | %d |\n", severityEmoji(sev), sev.Label(), r.Summary.Count(sev))
		}
		bw.WriteString("\n")
	}

	if r.BaselineCompared {
		writeIDSection(bw, "New warnings", r.NewWarnings)
		writeIDSection(bw, "Fixed warnings", r.FixedWarnings)
		if r.UnchangedCount != nil {
			fmt.Fprintf(bw, "Unchanged since baseline: %d\n\n", *r.UnchangedCount)
		}
	}

	for _, sev := range diag.Severities {
		group := r.BySeverity(sev)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(bw, "## %s %s (%d)\n\n", severityEmoji(sev), sev.Label(), len(group))
		for i := range group {
			writeMarkdownWarning(bw, &group[i], opts)
		}
	}
	return bw.Flush()
}

func writeIDSection(bw *bufio.Writer, title string, ids []string) {
	fmt.Fprintf(bw, "### %s (%d)\n\n", title, len(ids))
	for _, id := range ids {
		fmt.Fprintf(bw, "- `%s`\n", id)
	}
	if len(ids) > 0 {
		bw.WriteString("\n")
	}
}

func writeMarkdownWarning(bw *bufio.Writer, w *diag.Warning, opts MarkdownOpts) {
	fmt.Fprintf(bw, "### %s in `%s`\n\n", w.Type.Label(), Location(w))
	fmt.Fprintf(bw, "**Message:** %s\n\n", w.Message)

	if ctx := w.CodeContext; !ctx.IsEmpty() {
		fence := codeFence(ctx)
		fmt.Fprintf(bw, "%sswift\n", fence)
		for _, l := range ctx.Before {
			fmt.Fprintf(bw, "  %s\n", l)
		}
		fmt.Fprintf(bw, "> %s\n", ctx.Line)
		for _, l := range ctx.After {
			fmt.Fprintf(bw, "  %s\n", l)
		}
		fmt.Fprintf(bw, "%s\n\n", fence)
	}

	if fix := w.Fix(); fix != "" {
		fmt.Fprintf(bw, "**Suggested fix:** %s\n\n", truncateRunes(fix, opts.MaxFixChars))
	}
	fmt.Fprintf(bw, "<sub>id: `%s`</sub>\n\n", w.ID)
}

// codeFence returns a backtick fence longer than any backtick run in ctx.
func codeFence(ctx diag.CodeContext) string {
	longest := 0
	scan := func(s string) {
		run := 0
		for i := 0; i < len(s); i++ {
			if s[i] == '`' {
				run++
				longest = max(longest, run)
			} else {
				run = 0
			}
		}
	}
	for _, l := range ctx.Before {
		scan(l)
	}
	scan(ctx.Line)
	for _, l := range ctx.After {
		scan(l)
	}
	return strings.Repeat("`", max(3, longest+1))
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return strings.TrimRight(s[:i], " ") + "…"
		}
		count++
	}
	return s
}
