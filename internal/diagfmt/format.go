// Package diagfmt renders a diag.Report as JSON, Markdown or a Slack block
// payload. Renderers only read the report.
package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"swiftconcur/internal/diag"
)

// Render writes r to w in format f.
func Render(w io.Writer, r *diag.Report, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return JSON(w, r)
	case FormatMarkdown:
		return Markdown(w, r, opts.Markdown)
	case FormatSlack:
		return Slack(w, r, opts.Slack)
	}
	return fmt.Errorf("unsupported format %v", f)
}

// Location renders file:line[:col].
func Location(w *diag.Warning) string {
	var sb strings.Builder
	sb.WriteString(w.FilePath)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(w.Line))
	if w.Column != nil {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(*w.Column))
	}
	return sb.String()
}

func severityEmoji(s diag.Severity) string {
	switch s {
	case diag.SevCritical:
		return "🚨"
	case diag.SevHigh:
		return "⚠️"
	case diag.SevMedium:
		return "⚡"
	default:
		return "ℹ️"
	}
}

func summaryLine(total int) string {
	if total == 0 {
		return "✅ No Swift concurrency warnings found!"
	}
	return fmt.Sprintf("⚠️ Found %d Swift concurrency warning(s)", total)
}
