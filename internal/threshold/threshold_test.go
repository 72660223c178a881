package threshold

import "testing"

func limit(n int) *int { return &n }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		in       Input
		exceeded bool
	}{
		{"no limit", Policy{}, Input{Total: 1000}, false},
		{"zero limit zero warnings", Policy{Limit: limit(0)}, Input{Total: 0}, false},
		{"zero limit one warning", Policy{Limit: limit(0)}, Input{Total: 1}, true},
		{"at limit", Policy{Limit: limit(5)}, Input{Total: 5}, false},
		{"over limit", Policy{Limit: limit(5)}, Input{Total: 6}, true},
		{"new within", Policy{Limit: limit(0), Mode: ModeNew}, Input{Total: 9, New: 0, Compared: true}, false},
		{"new over", Policy{Limit: limit(0), Mode: ModeNew}, Input{Total: 9, New: 1, Compared: true}, true},
		{"new without baseline", Policy{Limit: limit(0), Mode: ModeNew}, Input{Total: 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Evaluate(tt.in)
			if got.Exceeded != tt.exceeded {
				t.Fatalf("Evaluate(%+v) exceeded=%v, want %v (%s)", tt.in, got.Exceeded, tt.exceeded, got)
			}
			wantCode := 0
			if tt.exceeded {
				wantCode = 1
			}
			if got.ExitCode() != wantCode {
				t.Fatalf("exit code %d, want %d", got.ExitCode(), wantCode)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("NEW"); err != nil || m != ModeNew {
		t.Fatalf("ParseMode(NEW) = %v, %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeTotal {
		t.Fatalf("ParseMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMode("delta"); err == nil {
		t.Fatal("expected error")
	}
}
