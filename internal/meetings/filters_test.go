package meetings

import (
	"strings"
	"testing"
)

func TestFilterCheckOrderAndReasons(t *testing.T) {
	cfg := FilterConfig{
		MinDurationMinutes: 15,
		MaxDurationMinutes: 120,
		MinParticipants:    2,
		MaxParticipants:    10,
	}

	cases := []struct {
		name         string
		duration     int
		participants int
		wantPass     bool
		wantReason   string
	}{
		{"passes all", 30, 3, true, ""},
		{"below min duration", 10, 3, false, "duration 10 min is below the 15 min minimum"},
		{"above max duration", 180, 3, false, "duration 180 min is above the 120 min maximum"},
		{"below min participants", 30, 1, false, "1 participants is below the minimum of 2"},
		{"above max participants", 30, 11, false, "11 participants is above the maximum of 10"},
		{"duration checked before participants", 10, 1, false, "duration 10 min"},
		{"at min boundary", 15, 2, true, ""},
		{"at max boundary", 120, 10, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := AnalysisRequest{
				DurationMinutes: tc.duration,
				Participants:    make([]Participant, tc.participants),
			}
			got := cfg.Check(req)
			if got.Pass != tc.wantPass {
				t.Fatalf("pass = %v, want %v (reason %q)", got.Pass, tc.wantPass, got.Reason)
			}
			if tc.wantReason != "" && !strings.Contains(got.Reason, tc.wantReason) {
				t.Errorf("reason = %q, want substring %q", got.Reason, tc.wantReason)
			}
		})
	}
}

func TestFilterCheckZeroMaxDisablesUpperBound(t *testing.T) {
	cfg := DefaultFilterConfig()

	req := AnalysisRequest{
		DurationMinutes: 600,
		Participants:    make([]Participant, 50),
	}
	if got := cfg.Check(req); !got.Pass {
		t.Fatalf("expected pass with disabled maxima, got reason %q", got.Reason)
	}
}
