package diag

// RawDiagnostic is a single warning as found in the input, before
// classification. Context is set only when the input carried source lines.
type RawDiagnostic struct {
	FilePath string
	Line     int
	Column   int // 0 when the input had no column
	Message  string
	Context  *CodeContext
}

// CodeContext holds the source lines around a warning.
type CodeContext struct {
	Before []string `json:"before"`
	Line   string   `json:"line"`
	After  []string `json:"after"`
}

// EmptyContext returns a context with no surrounding lines.
func EmptyContext(line string) CodeContext {
	return CodeContext{Before: []string{}, Line: line, After: []string{}}
}

// IsEmpty reports whether no source text was resolved at all.
func (c CodeContext) IsEmpty() bool {
	return c.Line == "" && len(c.Before) == 0 && len(c.After) == 0
}

// Truncate keeps at most n lines on each side of the warning line, the ones
// closest to it.
func (c CodeContext) Truncate(n int) CodeContext {
	if n < 0 {
		n = 0
	}
	before := c.Before
	if len(before) > n {
		before = before[len(before)-n:]
	}
	after := c.After
	if len(after) > n {
		after = after[:n]
	}
	out := EmptyContext(c.Line)
	out.Before = append(out.Before, before...)
	out.After = append(out.After, after...)
	return out
}

// Warning is the classified, contextualised and identified form of a
// diagnostic. It is not modified once built.
type Warning struct {
	ID           string      `json:"id"`
	Type         WarningType `json:"warning_type"`
	Severity     Severity    `json:"severity"`
	FilePath     string      `json:"file_path"`
	Line         int         `json:"line_number"`
	Column       *int        `json:"column_number"`
	Message      string      `json:"message"`
	CodeContext  CodeContext `json:"code_context"`
	SuggestedFix *string     `json:"suggested_fix"`
}

// ColumnOrZero returns the column, or 0 when it is unknown.
func (w *Warning) ColumnOrZero() int {
	if w.Column == nil {
		return 0
	}
	return *w.Column
}

// Fix returns the suggested fix text, or "" when there is none.
func (w *Warning) Fix() string {
	if w.SuggestedFix == nil {
		return ""
	}
	return *w.SuggestedFix
}
