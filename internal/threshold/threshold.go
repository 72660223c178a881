// Package threshold turns warning counts into a CI outcome.
package threshold

import (
	"fmt"
	"strings"
)

// Mode selects which count is compared with the limit.
type Mode uint8

const (
	// ModeTotal compares every warning in the report.
	ModeTotal Mode = iota
	// ModeNew compares only warnings absent from the baseline.
	ModeNew
)

func (m Mode) String() string {
	if m == ModeNew {
		return "new"
	}
	return "total"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "total":
		return ModeTotal, nil
	case "new":
		return ModeNew, nil
	}
	return ModeTotal, fmt.Errorf("unknown threshold mode %q (expected total|new)", s)
}

// Policy is the configured gate. A nil Limit disables it.
type Policy struct {
	Limit *int
	Mode  Mode
}

// Input carries the counts the policy looks at.
type Input struct {
	Total int
	// New is the number of new warnings; meaningful only when Compared.
	New      int
	Compared bool
}

// Outcome is the evaluated result.
type Outcome struct {
	Exceeded bool
	Count    int
	Limit    int
	Mode     Mode
	// Enforced is false when no limit is configured.
	Enforced bool
}

// ExitCode is 1 when the limit is exceeded and 0 otherwise.
func (o Outcome) ExitCode() int {
	if o.Exceeded {
		return 1
	}
	return 0
}

func (o Outcome) String() string {
	if !o.Enforced {
		return "no threshold"
	}
	verdict := "within"
	if o.Exceeded {
		verdict = "exceeds"
	}
	return fmt.Sprintf("%d %s warnings %s threshold %d", o.Count, o.Mode, verdict, o.Limit)
}

// Evaluate applies p. Count equal to the limit passes. In ModeNew without a
// baseline comparison nothing counts as new.
func (p Policy) Evaluate(in Input) Outcome {
	out := Outcome{Mode: p.Mode}
	if p.Limit == nil {
		out.Count = in.Total
		return out
	}
	out.Enforced = true
	out.Limit = *p.Limit
	switch p.Mode {
	case ModeNew:
		if in.Compared {
			out.Count = in.New
		}
	default:
		out.Count = in.Total
	}
	out.Exceeded = out.Count > out.Limit
	return out
}
