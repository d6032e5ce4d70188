package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/metrics"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// MeetingKind distinguishes a first sales-oriented call from an ongoing
// session with an existing client.
type MeetingKind string

const (
	MeetingKindDiscovery  MeetingKind = "discovery"
	MeetingKindConsulting MeetingKind = "consulting"
)

// MeetingTypeResult is the parsed output of DetectMeetingType.
type MeetingTypeResult struct {
	MeetingType MeetingKind `json:"meetingType"`
	Rationale   string      `json:"rationale"`
}

// IsDiscovery reports whether the meeting was classified as a discovery call.
func (r MeetingTypeResult) IsDiscovery() bool {
	return r.MeetingType == MeetingKindDiscovery
}

// Resource is a recommendation surfaced by the summary task.
type Resource struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// SummaryResult is the parsed output of Summarize.
type SummaryResult struct {
	Summary           string         `json:"summary"`
	PainPoint         string         `json:"painPoint"`
	Goal              string         `json:"goal"`
	Suggestions       string         `json:"suggestions"`
	ClientActionItems []string       `json:"clientActionItems"`
	CoachActionItems  []string       `json:"coachActionItems"`
	MindMap           map[string]any `json:"mindMap"`
	Resources         []Resource     `json:"resources"`
}

// EmailResult is the parsed output of DraftFollowUpEmail.
type EmailResult struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ShortFormScript is one social video script.
type ShortFormScript struct {
	Title    string   `json:"title"`
	Hook     string   `json:"hook"`
	Script   string   `json:"script"`
	Hashtags []string `json:"hashtags"`
}

// ScriptsResult is the parsed output of DraftShortFormScripts.
type ScriptsResult struct {
	Scripts []ShortFormScript `json:"scripts"`
}

const (
	meetingTypeMaxTokens = 300
	emailMaxTokens       = 1000
	scriptsMaxTokens     = 2000
	defaultMaxTokens     = 4000
)

// Orchestrator runs task prompts against an ordered provider chain. The
// first provider that answers wins; when every provider fails the failures
// are aggregated into one error. Prompts are deterministic templates; the
// orchestrator keeps no conversation state between calls.
type Orchestrator struct {
	providers        []Provider
	summaryMaxTokens int
}

// NewOrchestrator constructs an Orchestrator over the given providers,
// tried in order.
func NewOrchestrator(providers []Provider, summaryMaxTokens int) (*Orchestrator, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	if summaryMaxTokens <= 0 {
		summaryMaxTokens = defaultMaxTokens
	}
	return &Orchestrator{providers: providers, summaryMaxTokens: summaryMaxTokens}, nil
}

// DetectMeetingType classifies the transcript as discovery or consulting.
func (o *Orchestrator) DetectMeetingType(ctx context.Context, correlationID, transcript string) (MeetingTypeResult, error) {
	user := "Transcript:\n\n" + transcript
	text, err := o.generate(ctx, correlationID, "detect_meeting_type", promptMeetingType, user, meetingTypeMaxTokens)
	if err != nil {
		return MeetingTypeResult{}, err
	}
	var result MeetingTypeResult
	if err := parseInto("detect_meeting_type", text, &result); err != nil {
		return MeetingTypeResult{}, err
	}
	if result.MeetingType != MeetingKindDiscovery && result.MeetingType != MeetingKindConsulting {
		return MeetingTypeResult{}, &ParseError{
			Task: "detect_meeting_type",
			Err:  fmt.Errorf("unexpected meetingType %q", result.MeetingType),
		}
	}
	return result, nil
}

// Summarize produces the structured coaching insights for the transcript.
func (o *Orchestrator) Summarize(ctx context.Context, correlationID, transcript string, kind MeetingKind) (SummaryResult, error) {
	user := "Transcript:\n\n" + transcript
	text, err := o.generate(ctx, correlationID, "summarize", summaryPrompt(kind), user, o.summaryMaxTokens)
	if err != nil {
		return SummaryResult{}, err
	}
	var result SummaryResult
	if err := parseInto("summarize", text, &result); err != nil {
		return SummaryResult{}, err
	}
	if strings.TrimSpace(result.Summary) == "" {
		return SummaryResult{}, &ParseError{Task: "summarize", Err: errors.New("empty summary field")}
	}
	return result, nil
}

// DraftFollowUpEmail drafts the post-call email from the summary.
func (o *Orchestrator) DraftFollowUpEmail(ctx context.Context, correlationID string, summary SummaryResult, isDiscovery bool) (EmailResult, error) {
	kind := MeetingKindConsulting
	if isDiscovery {
		kind = MeetingKindDiscovery
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return EmailResult{}, fmt.Errorf("marshal summary: %w", err)
	}
	user := fmt.Sprintf("Meeting kind: %s\n\nCall insights:\n%s", kind, payload)
	text, err := o.generate(ctx, correlationID, "draft_follow_up_email", promptFollowUpEmail, user, emailMaxTokens)
	if err != nil {
		return EmailResult{}, err
	}
	var result EmailResult
	if err := parseInto("draft_follow_up_email", text, &result); err != nil {
		return EmailResult{}, err
	}
	return result, nil
}

// DraftShortFormScripts produces social video scripts from the transcript.
func (o *Orchestrator) DraftShortFormScripts(ctx context.Context, correlationID, transcript string) (ScriptsResult, error) {
	user := "Transcript:\n\n" + transcript
	text, err := o.generate(ctx, correlationID, "draft_short_form_scripts", promptShortFormScripts, user, scriptsMaxTokens)
	if err != nil {
		return ScriptsResult{}, err
	}
	var result ScriptsResult
	if err := parseInto("draft_short_form_scripts", text, &result); err != nil {
		return ScriptsResult{}, err
	}
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, correlationID, task, system, user string, maxTokens int) (string, error) {
	var failures []ProviderFailure
	for i, provider := range o.providers {
		text, err := provider.Infer(ctx, system, user, maxTokens)
		if err == nil {
			if i > 0 {
				telemetry.Info("llm.fallback_succeeded", map[string]any{
					"correlation_id": correlationID,
					"task":           task,
					"provider":       provider.Name(),
				})
			}
			return text, nil
		}
		failures = append(failures, ProviderFailure{Provider: provider.Name(), Err: err})
		metrics.IncProviderFallback(provider.Name())
		telemetry.Warn("llm.provider_failed", map[string]any{
			"correlation_id": correlationID,
			"task":           task,
			"provider":       provider.Name(),
			"error":          err.Error(),
		})
		if ctx.Err() != nil {
			break
		}
	}
	return "", &AggregateError{Failures: failures}
}

// parseInto tries a strict parse of the provider text, then the repair
// ladder, and wraps any remaining failure in a ParseError.
func parseInto(task, text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}
	repaired, err := RepairJSON(text)
	if err != nil {
		return &ParseError{Task: task, Err: err}
	}
	if err := json.Unmarshal(repaired, v); err != nil {
		return &ParseError{Task: task, Err: err}
	}
	return nil
}
