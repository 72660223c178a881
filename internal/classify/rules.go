package classify

import (
	"regexp"

	"swiftconcur/internal/diag"
)

// Rule is one row of the classification table.
type Rule struct {
	Name     string
	Type     diag.WarningType
	Severity diag.Severity
	Pattern  *regexp.Regexp
}

// Rules is evaluated top to bottom; the first match wins. Data races are
// checked first because they are the most dangerous category and their
// messages often mention other concepts as well.
var Rules = []Rule{
	{
		Name:     "data-race",
		Type:     diag.DataRace,
		Severity: diag.SevCritical,
		Pattern:  regexp.MustCompile(`(?i)(data\s+race|race\s+condition|concurrent\s+access|mutation\s+of\s+captured\s+var)`),
	},
	{
		Name:     "actor-isolation",
		Type:     diag.ActorIsolation,
		Severity: diag.SevHigh,
		Pattern:  regexp.MustCompile(`(?i)(actor-isolated\s+(property|method|function|instance|var|let|subscript).*?(can\s*not|cannot)\s+be\s+(referenced|accessed|called|mutated))|(\w+.*is\s+actor-isolated)`),
	},
	{
		Name:     "main-actor",
		Type:     diag.ActorIsolation,
		Severity: diag.SevHigh,
		Pattern:  regexp.MustCompile(`(?i)(main\s+actor.*isolation|call\s+to\s+main\s+actor|main\s+actor.*unsafe)`),
	},
	{
		Name:     "sendable",
		Type:     diag.SendableConformance,
		Severity: diag.SevHigh,
		Pattern:  regexp.MustCompile(`(?i)(type\s+'[^']+'\s+does\s+not\s+conform\s+to.*sendable)|(does\s+not\s+conform\s+to.*sendable)|(capture.*requires.*sendable)|(non-sendable)`),
	},
	{
		Name:     "task-lifecycle",
		Type:     diag.ActorIsolation,
		Severity: diag.SevMedium,
		Pattern:  regexp.MustCompile(`(?i)(task.*cancelled|task.*leaked|detached\s+task)`),
	},
	{
		Name:     "performance",
		Type:     diag.PerformanceRegression,
		Severity: diag.SevMedium,
		Pattern:  regexp.MustCompile(`(?i)(performance|async.*overhead|potential\s+deadlock|excessive\s+await)`),
	},
}
