package ui

import (
	"errors"
	"strings"
	"testing"

	"swiftconcur/internal/driver"
)

func TestApplyEventTracksStages(t *testing.T) {
	m := NewProgressModel("swiftconcur", nil).(*progressModel)

	m.applyEvent(driver.Event{Stage: driver.StageExtract, Status: driver.StatusDone, Done: 42})
	m.applyEvent(driver.Event{Stage: driver.StageAnalyze, Status: driver.StatusWorking, Done: 10, Total: 42})

	if got := m.items[0].status; got != driver.StatusDone {
		t.Fatalf("extract status = %s", got)
	}
	if got := m.items[1].detail; got != "10/42" {
		t.Fatalf("analyze detail = %q", got)
	}
	if p := m.percent(); p != 1.5/4 {
		t.Fatalf("percent = %v", p)
	}
	view := m.View()
	if !strings.Contains(view, "analyzing") || !strings.Contains(view, "queued") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestApplyEventError(t *testing.T) {
	m := NewProgressModel("swiftconcur", nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageExtract, Status: driver.StatusError, Err: errors.New("invalid JSON at byte 7")})
	if !m.failed {
		t.Fatal("expected failed state")
	}
	if !strings.Contains(m.View(), "invalid JSON at byte 7") {
		t.Fatal("error detail missing from view")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 5); got != "ab..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
