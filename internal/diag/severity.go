package diag

import (
	"fmt"
	"strings"
)

// Severity is the ordinal risk tier assigned at classification time.
// Higher values are more severe.
type Severity uint8

const (
	// SevLow is for warnings that did not match any concurrency rule.
	SevLow Severity = iota
	// SevMedium is for performance and task lifecycle findings.
	SevMedium
	SevHigh
	SevCritical
)

// Severities lists every tier from most to least severe.
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow}

func (s Severity) String() string {
	switch s {
	case SevLow:
		return "low"
	case SevMedium:
		return "medium"
	case SevHigh:
		return "high"
	case SevCritical:
		return "critical"
	}
	return "unknown"
}

// Label is the capitalised form used in human-readable reports.
func (s Severity) Label() string {
	switch s {
	case SevLow:
		return "Low"
	case SevMedium:
		return "Medium"
	case SevHigh:
		return "High"
	case SevCritical:
		return "Critical"
	}
	return "Unknown"
}

// ParseSeverity accepts the lower-case names produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SevLow, nil
	case "medium":
		return SevMedium, nil
	case "high":
		return SevHigh, nil
	case "critical":
		return SevCritical, nil
	}
	return SevLow, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
