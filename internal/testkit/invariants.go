// Package testkit holds checks shared by tests across packages.
package testkit

import (
	"fmt"

	"swiftconcur/internal/classify"
	"swiftconcur/internal/diag"
	"swiftconcur/internal/ident"
)

// CheckReportInvariants verifies a finished report:
// 1) warnings are sorted by file, line and column
// 2) total_count and the severity summary match the warnings
// 3) every id is the identity of its location and message
// 4) type and severity agree with the classifier
// 5) code context slices are non-nil so JSON never carries null
// 6) diff fields are present exactly when a baseline was compared
func CheckReportInvariants(r *diag.Report) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	if r.Warnings == nil {
		return fmt.Errorf("warnings slice is nil")
	}

	for i := 1; i < len(r.Warnings); i++ {
		if diag.CompareWarnings(r.Warnings[i-1], r.Warnings[i]) > 0 {
			return fmt.Errorf("warnings %d and %d out of order: %s:%d then %s:%d",
				i-1, i, r.Warnings[i-1].FilePath, r.Warnings[i-1].Line, r.Warnings[i].FilePath, r.Warnings[i].Line)
		}
	}

	if r.TotalCount != len(r.Warnings) {
		return fmt.Errorf("total_count %d != %d warnings", r.TotalCount, len(r.Warnings))
	}
	var sum diag.Summary
	for _, sev := range diag.Severities {
		n := len(r.BySeverity(sev))
		switch sev {
		case diag.SevCritical:
			sum.Critical = n
		case diag.SevHigh:
			sum.High = n
		case diag.SevMedium:
			sum.Medium = n
		default:
			sum.Low = n
		}
	}
	if sum != r.Summary {
		return fmt.Errorf("summary %+v does not match warnings %+v", r.Summary, sum)
	}

	for i := range r.Warnings {
		w := &r.Warnings[i]
		if want := ident.Of(w.FilePath, w.Line, w.Message); w.ID != want {
			return fmt.Errorf("warning %d: id %s, want %s", i, w.ID, want)
		}
		c := classify.Classify(w.Message)
		if c.Type != w.Type || c.Severity != w.Severity {
			return fmt.Errorf("warning %d: classified %v/%v, report says %v/%v", i, c.Type, c.Severity, w.Type, w.Severity)
		}
		if w.CodeContext.Before == nil || w.CodeContext.After == nil {
			return fmt.Errorf("warning %d: nil code context slices", i)
		}
	}

	if r.BaselineCompared != (r.UnchangedCount != nil) {
		return fmt.Errorf("baseline_compared=%v but unchanged_count set=%v", r.BaselineCompared, r.UnchangedCount != nil)
	}
	if !r.BaselineCompared && (len(r.NewWarnings) > 0 || len(r.FixedWarnings) > 0) {
		return fmt.Errorf("diff fields set without a baseline comparison")
	}
	return nil
}
