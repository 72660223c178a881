package testkit

import (
	"testing"

	"swiftconcur/internal/classify"
	"swiftconcur/internal/diag"
	"swiftconcur/internal/ident"
)

func warning(path string, line int, msg string) diag.Warning {
	c := classify.Classify(msg)
	return diag.Warning{
		ID:          ident.Of(path, line, msg),
		Type:        c.Type,
		Severity:    c.Severity,
		FilePath:    path,
		Line:        line,
		Message:     msg,
		CodeContext: diag.EmptyContext(""),
	}
}

func TestCheckReportInvariants(t *testing.T) {
	r := diag.NewReport([]diag.Warning{
		warning("B.swift", 1, "data race"),
		warning("A.swift", 2, "type 'X' does not conform to the 'Sendable' protocol"),
	})
	if err := CheckReportInvariants(r); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}

	r.Warnings[0].ID = "tampered"
	if err := CheckReportInvariants(r); err == nil {
		t.Fatal("tampered id accepted")
	}
}

func TestCheckReportInvariantsCounts(t *testing.T) {
	r := diag.NewReport([]diag.Warning{warning("A.swift", 1, "data race")})
	r.TotalCount = 5
	if err := CheckReportInvariants(r); err == nil {
		t.Fatal("wrong total accepted")
	}
}
