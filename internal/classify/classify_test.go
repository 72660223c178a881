package classify

import (
	"testing"

	"swiftconcur/internal/diag"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		typ  diag.WarningType
		sev  diag.Severity
	}{
		{"actor referenced", "actor-isolated property 'x' can not be referenced from a non-isolated context", diag.ActorIsolation, diag.SevHigh},
		{"actor cannot mutate", "Actor-isolated var 'count' cannot be mutated from a Sendable closure", diag.ActorIsolation, diag.SevHigh},
		{"is actor-isolated", "instance method 'load()' is actor-isolated", diag.ActorIsolation, diag.SevHigh},
		{"main actor", "call to main actor-isolated initializer in a synchronous nonisolated context", diag.ActorIsolation, diag.SevHigh},
		{"sendable conform", "type 'Foo' does not conform to the 'Sendable' protocol", diag.SendableConformance, diag.SevHigh},
		{"sendable capture", "capture of 'self' with non-sendable type 'Model' in a `@Sendable` closure", diag.SendableConformance, diag.SevHigh},
		{"data race", "Potential data race detected when accessing shared state", diag.DataRace, diag.SevCritical},
		{"race beats sendable", "concurrent access to value of non-sendable type", diag.DataRace, diag.SevCritical},
		{"race condition", "RACE CONDITION on counter", diag.DataRace, diag.SevCritical},
		{"task", "detached task may outlive its scope", diag.ActorIsolation, diag.SevMedium},
		{"performance", "async call overhead in tight loop", diag.PerformanceRegression, diag.SevMedium},
		{"deadlock", "potential deadlock while awaiting", diag.PerformanceRegression, diag.SevMedium},
		{"unknown", "variable 'x' was never used", diag.Unknown, diag.SevLow},
		{"empty", "", diag.Unknown, diag.SevLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.msg)
			if got.Type != tt.typ || got.Severity != tt.sev {
				t.Fatalf("Classify(%q) = %v/%v (rule %q), want %v/%v", tt.msg, got.Type, got.Severity, got.Rule, tt.typ, tt.sev)
			}
			if again := Classify(tt.msg); again != got {
				t.Fatalf("classification not deterministic: %+v vs %+v", got, again)
			}
		})
	}
}

func TestSuggestedFix(t *testing.T) {
	if fix := SuggestedFix(diag.Unknown, "whatever"); fix != nil {
		t.Fatalf("unknown warnings have no fix, got %q", *fix)
	}
	fix := SuggestedFix(diag.ActorIsolation, "actor-isolated property 'x' can not be referenced")
	if fix == nil || *fix != fixActorReference {
		t.Fatalf("unexpected fix %v", fix)
	}
	fix = SuggestedFix(diag.SendableConformance, "capture of 'x' requires Sendable")
	if fix == nil || *fix != fixSendableCap {
		t.Fatalf("unexpected fix %v", fix)
	}
	for _, typ := range []diag.WarningType{diag.DataRace, diag.PerformanceRegression} {
		if SuggestedFix(typ, "") == nil {
			t.Fatalf("expected fix for %v", typ)
		}
	}
}

func TestFilter(t *testing.T) {
	f, err := ParseFilter("", false)
	if err != nil {
		t.Fatal(err)
	}
	if f.Keep(diag.Unknown) || !f.Keep(diag.DataRace) {
		t.Fatal("default filter must drop unknown only")
	}
	f, err = ParseFilter("sendable", false)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Keep(diag.SendableConformance) || f.Keep(diag.DataRace) {
		t.Fatal("type filter must keep only its type")
	}
	if _, err := ParseFilter("deadlocks", false); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}
