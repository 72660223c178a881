package diagfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"swiftconcur/internal/diag"
)

// SlackPayload is an incoming-webhook message with Block Kit blocks.
type SlackPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks,omitempty"`
}

// SlackBlock covers the block types the report uses.
type SlackBlock struct {
	Type      string        `json:"type"`
	Text      *SlackText    `json:"text,omitempty"`
	Elements  []SlackText   `json:"elements,omitempty"`
	Accessory *SlackElement `json:"accessory,omitempty"`
}

type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type SlackElement struct {
	Type     string    `json:"type"`
	Text     SlackText `json:"text"`
	Value    string    `json:"value"`
	ActionID string    `json:"action_id"`
}

// slackEntryWidth is the display width entry messages are cut to when the
// full payload is too large.
const slackEntryWidth = 120

// Slack writes a block payload that never exceeds opts.MaxBytes. It first
// shortens entry messages, then drops entries, and finally falls back to a
// text-only message.
func Slack(w io.Writer, r *diag.Report, opts SlackOpts) error {
	opts = opts.withDefaults()
	if opts.MaxBytes < MinSlackBytes {
		return fmt.Errorf("slack byte limit %d is below the minimal payload size %d", opts.MaxBytes, MinSlackBytes)
	}
	entries := r.MostSevere(opts.MaxEntries)

	data, err := encodeSlack(BuildSlackPayload(r, entries, opts.Title, 0))
	if err != nil {
		return err
	}
	if len(data) > opts.MaxBytes {
		data, err = encodeSlack(BuildSlackPayload(r, entries, opts.Title, slackEntryWidth))
		if err != nil {
			return err
		}
	}
	for n := len(entries) - 1; len(data) > opts.MaxBytes && n >= 0; n-- {
		data, err = encodeSlack(BuildSlackPayload(r, entries[:n], opts.Title, slackEntryWidth))
		if err != nil {
			return err
		}
	}
	if len(data) > opts.MaxBytes {
		data, err = minimalSlack(r, opts.MaxBytes)
		if err != nil {
			return err
		}
	}
	_, err = w.Write(data)
	return err
}

// BuildSlackPayload lays out the blocks for the given entries. A width > 0
// cuts entry messages to that display width.
func BuildSlackPayload(r *diag.Report, entries []diag.Warning, title string, width int) SlackPayload {
	summary := summaryLine(r.TotalCount)
	p := SlackPayload{Text: summary}
	p.Blocks = append(p.Blocks, SlackBlock{
		Type: "header",
		Text: &SlackText{Type: "plain_text", Text: title, Emoji: true},
	})

	var sb strings.Builder
	sb.WriteString(summary)
	if r.TotalCount > 0 {
		sb.WriteString("\n")
		for i, sev := range diag.Severities {
			if i > 0 {
				sb.WriteString("   ")
			}
			fmt.Fprintf(&sb, "%s *%s:* %d", severityEmoji(sev), sev.Label(), r.Summary.Count(sev))
		}
	}
	if r.BaselineCompared {
		fmt.Fprintf(&sb, "\n*New:* %d   *Fixed:* %d", len(r.NewWarnings), len(r.FixedWarnings))
	}
	p.Blocks = append(p.Blocks,
		SlackBlock{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: sb.String()}},
		SlackBlock{Type: "divider"},
	)

	for i := range entries {
		p.Blocks = append(p.Blocks, slackEntry(&entries[i], width))
	}
	if rest := r.TotalCount - len(entries); rest > 0 {
		p.Blocks = append(p.Blocks, SlackBlock{
			Type:     "context",
			Elements: []SlackText{{Type: "mrkdwn", Text: fmt.Sprintf("_… and %d more warnings_", rest)}},
		})
	}
	return p
}

func slackEntry(w *diag.Warning, width int) SlackBlock {
	msg := w.Message
	if width > 0 {
		msg = runewidth.Truncate(msg, width, "…")
	}
	text := fmt.Sprintf("%s *%s* `%s`\n%s",
		severityEmoji(w.Severity), w.Type.Label(), slackEscape(Location(w)), slackEscape(msg))
	return SlackBlock{
		Type: "section",
		Text: &SlackText{Type: "mrkdwn", Text: text},
		Accessory: &SlackElement{
			Type:     "button",
			Text:     SlackText{Type: "plain_text", Text: "Details"},
			Value:    w.ID,
			ActionID: "warning_" + w.ID,
		},
	}
}

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func slackEscape(s string) string {
	return slackEscaper.Replace(s)
}

func encodeSlack(p SlackPayload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// minimalSlack is the last resort: only the summary text, cut to fit.
func minimalSlack(r *diag.Report, limit int) ([]byte, error) {
	text := summaryLine(r.TotalCount)
	for {
		data, err := encodeSlack(SlackPayload{Text: text})
		if err != nil || len(data) <= limit || text == "" {
			return data, err
		}
		_, size := utf8.DecodeLastRuneInString(text)
		text = text[:len(text)-size]
	}
}
