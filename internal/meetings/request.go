package meetings

import (
	"errors"
	"strings"
	"time"
)

// Source identifies the call-recording service a request came from.
type Source string

const (
	SourceFathom Source = "fathom"
	SourceZoom   Source = "zoom"
	SourceReadAI Source = "read_ai"
	SourceManual Source = "manual"
)

// KnownSource reports whether the source is one of the supported recording
// services.
func KnownSource(s Source) bool {
	switch s {
	case SourceFathom, SourceZoom, SourceReadAI, SourceManual:
		return true
	}
	return false
}

// Participant is one attendee as reported by the recording source, in the
// source's original order.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// AnalysisRequest is the external event that starts the pipeline. It is
// immutable once received and is not persisted verbatim.
type AnalysisRequest struct {
	Source            Source            `json:"source"`
	ExternalMeetingID string            `json:"externalMeetingId"`
	Title             string            `json:"title"`
	Transcript        string            `json:"transcript"`
	DurationMinutes   int               `json:"durationMinutes"`
	Participants      []Participant     `json:"participants"`
	RecordingURL      string            `json:"recordingUrl,omitempty"`
	MeetingDate       time.Time         `json:"meetingDate,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Validate checks the request for structural problems. Each failure carries a
// distinct human-readable reason; all of them surface as INVALID_INPUT.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(string(r.Source)) == "" {
		return errors.New("meeting source is required")
	}
	if !KnownSource(r.Source) {
		return errors.New("unknown meeting source " + strings.TrimSpace(string(r.Source)))
	}
	if strings.TrimSpace(r.ExternalMeetingID) == "" {
		return errors.New("external meeting id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("meeting title is required")
	}
	if strings.TrimSpace(r.Transcript) == "" {
		return errors.New("transcript is required")
	}
	if r.DurationMinutes <= 0 {
		return errors.New("duration must be a positive number of minutes")
	}
	if len(r.Participants) == 0 {
		return errors.New("at least one participant is required")
	}
	return nil
}
