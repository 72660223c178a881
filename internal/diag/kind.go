package diag

import (
	"fmt"
	"strings"
)

// WarningType is the concurrency category a warning falls into.
type WarningType uint8

const (
	Unknown WarningType = iota
	ActorIsolation
	SendableConformance
	DataRace
	PerformanceRegression
)

var typeNames = map[WarningType]string{
	Unknown:               "unknown",
	ActorIsolation:        "actor_isolation",
	SendableConformance:   "sendable_conformance",
	DataRace:              "data_race",
	PerformanceRegression: "performance_regression",
}

var typeLabels = map[WarningType]string{
	Unknown:               "Unknown",
	ActorIsolation:        "Actor Isolation",
	SendableConformance:   "Sendable Conformance",
	DataRace:              "Data Race",
	PerformanceRegression: "Performance Regression",
}

func (t WarningType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Label returns the human-readable name used by Markdown and Slack output.
func (t WarningType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "Unknown"
}

// ParseWarningType accepts the snake_case names used in JSON reports as well
// as the short CLI filter names (actor-isolation, sendable, data-race,
// performance).
func ParseWarningType(s string) (WarningType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	switch key {
	case "actor_isolation", "actor":
		return ActorIsolation, nil
	case "sendable_conformance", "sendable":
		return SendableConformance, nil
	case "data_race", "race":
		return DataRace, nil
	case "performance_regression", "performance":
		return PerformanceRegression, nil
	case "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unknown warning type %q (expected actor-isolation|sendable|data-race|performance)", s)
}

func (t WarningType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *WarningType) UnmarshalText(b []byte) error {
	v, err := ParseWarningType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
