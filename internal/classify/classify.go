// Package classify maps compiler warning text to a concurrency category and
// severity using an ordered rule table.
package classify

import (
	"strings"

	"swiftconcur/internal/diag"
)

// Classification is the result of matching a message against Rules.
type Classification struct {
	Type     diag.WarningType
	Severity diag.Severity
	// Rule is the name of the matching rule, "" for Unknown.
	Rule string
}

// Classify returns the classification of a warning message. It has no state
// and may be called from any goroutine.
func Classify(message string) Classification {
	for i := range Rules {
		r := &Rules[i]
		if r.Pattern.MatchString(message) {
			return Classification{Type: r.Type, Severity: r.Severity, Rule: r.Name}
		}
	}
	return Classification{Type: diag.Unknown, Severity: diag.SevLow}
}

const (
	fixActorMutate    = "Consider using 'await' or @MainActor to safely mutate the actor-isolated property."
	fixActorReference = "Use 'await' to access the actor-isolated member, or move this code into an actor context."
	fixMainActor      = "Use '@MainActor' annotation or dispatch to the main queue with 'await MainActor.run'."
	fixActorGeneric   = "Ensure proper actor isolation by using 'await' or moving code to appropriate actor context."
	fixSendableConf   = "Add 'Sendable' conformance to the type or use '@unchecked Sendable' if thread-safe."
	fixSendableCap    = "Ensure captured values conform to 'Sendable' or restructure to avoid capture."
	fixSendable       = "Review Sendable conformance requirements for concurrent contexts."
	fixDataRace       = "Protect shared mutable state with proper synchronization (actors, locks, or atomic operations)."
	fixPerformance    = "Review async/await usage patterns and consider optimizing concurrency structure."
)

// SuggestedFix returns remediation text for a classified message, or nil
// when the category has none.
func SuggestedFix(typ diag.WarningType, message string) *string {
	var fix string
	lower := strings.ToLower(message)
	switch typ {
	case diag.ActorIsolation:
		switch {
		case strings.Contains(lower, "can not be mutated"), strings.Contains(lower, "cannot be mutated"):
			fix = fixActorMutate
		case strings.Contains(lower, "can not be referenced"), strings.Contains(lower, "cannot be referenced"):
			fix = fixActorReference
		case strings.Contains(lower, "main actor"):
			fix = fixMainActor
		default:
			fix = fixActorGeneric
		}
	case diag.SendableConformance:
		switch {
		case strings.Contains(lower, "does not conform"):
			fix = fixSendableConf
		case strings.Contains(lower, "capture"):
			fix = fixSendableCap
		default:
			fix = fixSendable
		}
	case diag.DataRace:
		fix = fixDataRace
	case diag.PerformanceRegression:
		fix = fixPerformance
	default:
		return nil
	}
	return &fix
}
