package meetings

import "time"

const (
	// StatusPending exists only conceptually before the record is written;
	// it is never persisted. A record becomes visible as processing.
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Meeting is the durable unit of analysis work. Its id is generated here and
// is distinct from the recording source's meeting id. The correlation id tags
// log output for one run and is never used for lookup.
type Meeting struct {
	ID                string           `json:"id"`
	CorrelationID     string           `json:"correlationId"`
	UserID            string           `json:"userId"`
	ClientID          string           `json:"clientId"`
	ClientName        string           `json:"clientName"`
	Source            Source           `json:"source"`
	ExternalMeetingID string           `json:"externalMeetingId"`
	Title             string           `json:"title"`
	MeetingDate       time.Time        `json:"meetingDate"`
	DurationMinutes   int              `json:"durationMinutes"`
	Transcript        string           `json:"-"`
	RecordingURL      string           `json:"recordingUrl,omitempty"`
	Status            string           `json:"status"`
	Results           *AnalysisResults `json:"results,omitempty"`
	ErrorDetail       string           `json:"-"`
	StartedAt         *time.Time       `json:"startedAt,omitempty"`
	CompletedAt       *time.Time       `json:"completedAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// AnalysisResults holds every result field of a completed run. The record
// stores either all of them or none; partial writes are never observable.
type AnalysisResults struct {
	IsDiscovery       bool                 `json:"isDiscovery"`
	Summary           string               `json:"summary"`
	PainPoint         string               `json:"painPoint"`
	Goal              string               `json:"goal"`
	Suggestions       string               `json:"suggestions"`
	ClientActionItems []string             `json:"clientActionItems"`
	CoachActionItems  []string             `json:"coachActionItems"`
	EmailSubject      string               `json:"emailSubject"`
	EmailBody         string               `json:"emailBody"`
	MindMap           map[string]any       `json:"mindMap"`
	Resources         []ResourceSuggestion `json:"resources"`
	SocialContent     []SocialScript       `json:"socialContent"`
}

// ResourceSuggestion is one recommended resource from the summary step.
type ResourceSuggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// SocialScript is one short-form video script from the scripts step.
type SocialScript struct {
	Title    string   `json:"title"`
	Hook     string   `json:"hook"`
	Script   string   `json:"script"`
	Hashtags []string `json:"hashtags"`
}

// transcriptStorageLimit caps the transcript persisted with the record. The
// full transcript is only held in memory for the inference calls.
const transcriptStorageLimit = 5000

// truncateTranscript caps the stored transcript and marks the cut.
func truncateTranscript(transcript string) string {
	runes := []rune(transcript)
	if len(runes) <= transcriptStorageLimit {
		return transcript
	}
	return string(runes[:transcriptStorageLimit]) + "…"
}
