package meetings

import (
	"strings"
	"testing"
	"time"
)

func validRequest() AnalysisRequest {
	return AnalysisRequest{
		Source:            SourceFathom,
		ExternalMeetingID: "ext-123",
		Title:             "Weekly check-in",
		Transcript:        "Coach: how did the week go?",
		DurationMinutes:   45,
		Participants:      []Participant{{Name: "Jamie Chen", Email: "jamie@example.com"}},
		MeetingDate:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestAnalysisRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*AnalysisRequest)
		wantErr string
	}{
		{"valid", func(r *AnalysisRequest) {}, ""},
		{"missing source", func(r *AnalysisRequest) { r.Source = "" }, "meeting source is required"},
		{"unknown source", func(r *AnalysisRequest) { r.Source = "teams" }, "unknown meeting source teams"},
		{"missing external id", func(r *AnalysisRequest) { r.ExternalMeetingID = " " }, "external meeting id is required"},
		{"missing title", func(r *AnalysisRequest) { r.Title = "" }, "meeting title is required"},
		{"missing transcript", func(r *AnalysisRequest) { r.Transcript = "  " }, "transcript is required"},
		{"zero duration", func(r *AnalysisRequest) { r.DurationMinutes = 0 }, "duration must be a positive number"},
		{"negative duration", func(r *AnalysisRequest) { r.DurationMinutes = -5 }, "duration must be a positive number"},
		{"no participants", func(r *AnalysisRequest) { r.Participants = nil }, "at least one participant is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestKnownSource(t *testing.T) {
	for _, src := range []Source{SourceFathom, SourceZoom, SourceReadAI, SourceManual} {
		if !KnownSource(src) {
			t.Errorf("KnownSource(%q) = false", src)
		}
	}
	if KnownSource("webex") {
		t.Error("KnownSource(webex) = true")
	}
}
