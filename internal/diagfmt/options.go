package diagfmt

import (
	"fmt"
	"strings"
)

// Format selects the renderer.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMarkdown
	FormatSlack
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatSlack:
		return "slack"
	default:
		return "json"
	}
}

// ParseFormat is strict: an unknown name is an error, never a fallback.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "slack":
		return FormatSlack, nil
	}
	return FormatJSON, fmt.Errorf("unknown format %q (expected json|markdown|slack)", s)
}

// DefaultTitle heads Markdown and Slack reports.
const DefaultTitle = "Swift Concurrency Warnings Report"

// MarkdownOpts configures Markdown output.
type MarkdownOpts struct {
	Title string
	// MaxFixChars cuts suggested fixes; 0 means DefaultMaxFixChars.
	MaxFixChars int
}

const DefaultMaxFixChars = 200

// SlackOpts configures the Slack block payload.
type SlackOpts struct {
	Title string
	// MaxEntries is the number of warnings listed; 0 means DefaultSlackEntries.
	MaxEntries int
	// MaxBytes bounds the encoded payload; 0 means DefaultSlackBytes.
	MaxBytes int
}

const (
	DefaultSlackEntries = 10
	DefaultSlackBytes   = 40000
	// MinSlackBytes is the size of an encoded text-only payload with an
	// empty text, the smallest message Slack can emit.
	MinSlackBytes = len(`{"text":""}`) + 1
)

// Options groups per-format settings.
type Options struct {
	Markdown MarkdownOpts
	Slack    SlackOpts
}

func (o MarkdownOpts) withDefaults() MarkdownOpts {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.MaxFixChars <= 0 {
		o.MaxFixChars = DefaultMaxFixChars
	}
	return o
}

func (o SlackOpts) withDefaults() SlackOpts {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultSlackEntries
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultSlackBytes
	}
	return o
}
