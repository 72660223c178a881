package diag

import (
	"cmp"
	"slices"
)

// Summary counts warnings per severity tier.
type Summary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Count returns the counter for a tier.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SevCritical:
		return s.Critical
	case SevHigh:
		return s.High
	case SevMedium:
		return s.Medium
	default:
		return s.Low
	}
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SevCritical:
		s.Critical++
	case SevHigh:
		s.High++
	case SevMedium:
		s.Medium++
	default:
		s.Low++
	}
}

// Report is the output aggregate of one invocation. Field order is the JSON
// key order.
type Report struct {
	Warnings         []Warning `json:"warnings"`
	TotalCount       int       `json:"total_count"`
	Summary          Summary   `json:"summary"`
	BaselineCompared bool      `json:"baseline_compared"`
	NewWarnings      []string  `json:"new_warnings,omitempty"`
	FixedWarnings    []string  `json:"fixed_warnings,omitempty"`
	UnchangedCount   *int      `json:"unchanged_count,omitempty"`
	BuildTimeSeconds *float64  `json:"build_time_seconds,omitempty"`
}

// NewReport sorts the warnings and fills the counters.
func NewReport(warnings []Warning) *Report {
	if warnings == nil {
		warnings = []Warning{}
	}
	r := &Report{Warnings: warnings}
	r.Sort()
	r.recount()
	return r
}

func (r *Report) recount() {
	r.TotalCount = len(r.Warnings)
	r.Summary = Summary{}
	for i := range r.Warnings {
		r.Summary.add(r.Warnings[i].Severity)
	}
}

// Sort orders warnings by file, line, column, then severity (desc), type,
// message and id so output never depends on input order.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Warnings, CompareWarnings)
}

// CompareWarnings is the canonical ordering of warnings.
func CompareWarnings(a, b Warning) int {
	if c := cmp.Compare(a.FilePath, b.FilePath); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ColumnOrZero(), b.ColumnOrZero()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Message, b.Message); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Dedup drops warnings whose ID was already seen. The report must be sorted.
func (r *Report) Dedup() int {
	seen := make(map[string]struct{}, len(r.Warnings))
	kept := r.Warnings[:0]
	for _, w := range r.Warnings {
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}
		kept = append(kept, w)
	}
	dropped := len(r.Warnings) - len(kept)
	r.Warnings = kept
	r.recount()
	return dropped
}

// IDs returns the warning ids in report order.
func (r *Report) IDs() []string {
	ids := make([]string, len(r.Warnings))
	for i := range r.Warnings {
		ids[i] = r.Warnings[i].ID
	}
	return ids
}

// SetDiff records the outcome of a baseline comparison.
func (r *Report) SetDiff(newIDs, fixedIDs []string, unchanged int) {
	r.BaselineCompared = true
	r.NewWarnings = newIDs
	r.FixedWarnings = fixedIDs
	r.UnchangedCount = &unchanged
}

// BySeverity returns the warnings of one tier, in report order.
func (r *Report) BySeverity(sev Severity) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Severity == sev {
			out = append(out, w)
		}
	}
	return out
}

// MostSevere returns up to n warnings, most severe first and in report order
// within a tier. n <= 0 returns all of them.
func (r *Report) MostSevere(n int) []Warning {
	out := make([]Warning, 0, len(r.Warnings))
	for _, sev := range Severities {
		out = append(out, r.BySeverity(sev)...)
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
