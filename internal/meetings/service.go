package meetings

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/llm"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/queue"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/metrics"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// Analyzer produces the four analysis artifacts. Satisfied by *llm.Orchestrator.
type Analyzer interface {
	DetectMeetingType(ctx context.Context, correlationID, transcript string) (llm.MeetingTypeResult, error)
	Summarize(ctx context.Context, correlationID, transcript string, kind llm.MeetingKind) (llm.SummaryResult, error)
	DraftFollowUpEmail(ctx context.Context, correlationID string, summary llm.SummaryResult, isDiscovery bool) (llm.EmailResult, error)
	DraftShortFormScripts(ctx context.Context, correlationID, transcript string) (llm.ScriptsResult, error)
}

// Service wires intake, persistence and inference for meeting analysis.
type Service struct {
	Repo     Repo
	Resolver *Resolver
	Limiter  *SubmitLimiter
	Filters  FilterConfig
	Queue    queue.Client
	AI       Analyzer
	Notifier Notifier

	now func() time.Time
}

// NewService constructs a Service. The notifier defaults to LogNotifier.
func NewService(repo Repo, resolver *Resolver, limiter *SubmitLimiter, filters FilterConfig, q queue.Client, ai Analyzer, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{
		Repo:     repo,
		Resolver: resolver,
		Limiter:  limiter,
		Filters:  filters,
		Queue:    q,
		AI:       ai,
		Notifier: notifier,
		now:      time.Now,
	}
}

// TriggerResult is the outcome of the intake gate. When Success is false,
// ErrorCode carries one of the intake error codes and Message a human
// readable reason.
type TriggerResult struct {
	Success       bool
	Message       string
	MeetingID     string
	CorrelationID string
	ErrorCode     string
}

func rejection(correlationID, code, message string) TriggerResult {
	return TriggerResult{
		Success:       false,
		Message:       message,
		CorrelationID: correlationID,
		ErrorCode:     code,
	}
}

// TriggerAnalysis runs the intake gate for one submitted meeting: rate
// limiting, payload validation, filtering, customer resolution, record
// creation and hand-off to the queue. Rejections come back as a non-success
// result with a nil error; only infrastructure failures (the customer lookup
// or the record insert) return an error.
func (s *Service) TriggerAnalysis(ctx context.Context, userID string, req AnalysisRequest) (TriggerResult, error) {
	correlationID := NewCorrelationID(req.Source, s.now())
	ctx = WithCorrelationID(ctx, correlationID)

	telemetry.Info("analysis.trigger", map[string]any{
		"correlation_id": correlationID,
		"user_id":        userID,
		"source":         string(req.Source),
		"external_id":    req.ExternalMeetingID,
	})

	if s.Limiter != nil {
		allowed, wait := s.Limiter.CheckAllowed(userID)
		if !allowed {
			// Round up so the reported wait is never shorter than the window.
			seconds := int(math.Ceil(wait.Seconds()))
			telemetry.Info("analysis.rate_limited", map[string]any{
				"correlation_id":    correlationID,
				"user_id":           userID,
				"seconds_remaining": seconds,
			})
			return rejection(correlationID, ErrorCodeRateLimited,
				fmt.Sprintf("please wait %d seconds before submitting another meeting", seconds)), nil
		}
	}

	if err := req.Validate(); err != nil {
		telemetry.Info("analysis.invalid_input", map[string]any{
			"correlation_id": correlationID,
			"reason":         err.Error(),
		})
		return rejection(correlationID, ErrorCodeInvalidInput, err.Error()), nil
	}

	if result := s.Filters.Check(req); !result.Pass {
		metrics.IncAnalysisFiltered()
		telemetry.Info("analysis.filtered", map[string]any{
			"correlation_id": correlationID,
			"reason":         result.Reason,
		})
		return rejection(correlationID, ErrorCodeFilteredOut, result.Reason), nil
	}

	match, err := s.Resolver.Resolve(ctx, req.Participants)
	if err != nil {
		return TriggerResult{}, fmt.Errorf("resolve customer: %w", err)
	}
	if match == nil {
		telemetry.Info("analysis.no_customer_match", map[string]any{
			"correlation_id": correlationID,
			"participants":   len(req.Participants),
		})
		return rejection(correlationID, ErrorCodeNoCustomerMatch,
			"no participant matched a known customer"), nil
	}

	startedAt := s.now().UTC()
	meeting := Meeting{
		ID:                uuid.NewString(),
		CorrelationID:     correlationID,
		UserID:            match.UserID,
		ClientID:          match.ClientID,
		ClientName:        match.ClientName,
		Source:            req.Source,
		ExternalMeetingID: req.ExternalMeetingID,
		Title:             req.Title,
		MeetingDate:       req.MeetingDate,
		DurationMinutes:   req.DurationMinutes,
		Transcript:        truncateTranscript(req.Transcript),
		RecordingURL:      req.RecordingURL,
		Status:            StatusProcessing,
		StartedAt:         &startedAt,
		CreatedAt:         startedAt,
		UpdatedAt:         startedAt,
	}
	if err := s.Repo.Create(ctx, meeting); err != nil {
		return TriggerResult{}, fmt.Errorf("create meeting record: %w", err)
	}

	if s.Limiter != nil {
		s.Limiter.RecordSubmission(userID)
	}

	msg := queue.Message{
		MeetingID:     meeting.ID,
		CorrelationID: correlationID,
		Transcript:    req.Transcript,
		UserEmail:     match.UserEmail,
		EnqueuedAt:    startedAt.Format(time.RFC3339),
		Version:       1,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("analysis.enqueue_failed", map[string]any{
			"correlation_id": correlationID,
			"meeting_id":     meeting.ID,
			"error":          err.Error(),
		})
		s.failMeeting(ctx, meeting, msg.UserEmail, fmt.Errorf("enqueue analysis: %w", err))
		return TriggerResult{}, fmt.Errorf("enqueue analysis: %w", err)
	}

	telemetry.Info("analysis.accepted", map[string]any{
		"correlation_id": correlationID,
		"meeting_id":     meeting.ID,
		"client_id":      match.ClientID,
	})
	return TriggerResult{
		Success:       true,
		Message:       "meeting accepted for analysis",
		MeetingID:     meeting.ID,
		CorrelationID: correlationID,
	}, nil
}

// Job describes one analysis to execute. The transcript is the full
// submitted text; when it is empty the stored (truncated) copy on the
// record is used instead, which happens when a worker replays an old
// queue payload.
type Job struct {
	MeetingID     string
	CorrelationID string
	Transcript    string
	UserEmail     string
}

// ExecuteAnalysis runs the full analysis pipeline for one meeting record and
// reports whether it completed. Every failure past this point is captured in
// the record; nothing escapes to the caller.
func (s *Service) ExecuteAnalysis(ctx context.Context, job Job) (ok bool) {
	ctx = WithCorrelationID(ctx, job.CorrelationID)
	start := s.now()

	meeting, err := s.Repo.GetByID(ctx, job.MeetingID)
	if err != nil {
		telemetry.Error("analysis.load_failed", map[string]any{
			"correlation_id": job.CorrelationID,
			"meeting_id":     job.MeetingID,
			"error":          err.Error(),
		})
		return false
	}

	// A replayed queue message for a record that already reached a terminal
	// state must not burn provider calls again.
	if meeting.Status != StatusProcessing {
		telemetry.Info("analysis.already_terminal", map[string]any{
			"correlation_id": job.CorrelationID,
			"meeting_id":     meeting.ID,
			"status":         meeting.Status,
		})
		return meeting.Status == StatusCompleted
	}

	defer func() {
		if r := recover(); r != nil {
			s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("panic during analysis: %v", r))
			ok = false
		}
	}()

	transcript := job.Transcript
	if transcript == "" {
		transcript = meeting.Transcript
	}

	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.started", map[string]any{
		"correlation_id": job.CorrelationID,
		"meeting_id":     meeting.ID,
		"transcript_len": len(transcript),
	})

	meetingType, err := s.AI.DetectMeetingType(ctx, job.CorrelationID, transcript)
	if err != nil {
		s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("detect meeting type: %w", err))
		return false
	}
	isDiscovery := meetingType.IsDiscovery()
	kind := llm.MeetingKindConsulting
	if isDiscovery {
		kind = llm.MeetingKindDiscovery
	}

	summary, err := s.AI.Summarize(ctx, job.CorrelationID, transcript, kind)
	if err != nil {
		s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("summarize meeting: %w", err))
		return false
	}

	email, err := s.AI.DraftFollowUpEmail(ctx, job.CorrelationID, summary, isDiscovery)
	if err != nil {
		s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("draft follow-up email: %w", err))
		return false
	}

	scripts, err := s.AI.DraftShortFormScripts(ctx, job.CorrelationID, transcript)
	if err != nil {
		s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("draft short-form scripts: %w", err))
		return false
	}

	results := AnalysisResults{
		IsDiscovery:       isDiscovery,
		Summary:           summary.Summary,
		PainPoint:         summary.PainPoint,
		Goal:              summary.Goal,
		Suggestions:       summary.Suggestions,
		ClientActionItems: summary.ClientActionItems,
		CoachActionItems:  summary.CoachActionItems,
		EmailSubject:      email.Subject,
		EmailBody:         email.Body,
		MindMap:           summary.MindMap,
		Resources:         resourceSuggestions(summary.Resources),
		SocialContent:     socialScripts(scripts.Scripts),
	}

	completedAt := s.now().UTC()
	if err := s.Repo.Complete(ctx, meeting.ID, results, completedAt); err != nil {
		s.failMeeting(ctx, meeting, job.UserEmail, fmt.Errorf("persist results: %w", err))
		return false
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationSeconds(s.now().Sub(start).Seconds())
	telemetry.Info("analysis.completed", map[string]any{
		"correlation_id": job.CorrelationID,
		"meeting_id":     meeting.ID,
		"is_discovery":   isDiscovery,
		"duration_ms":    s.now().Sub(start).Milliseconds(),
	})
	s.Notifier.AnalysisFinished(ctx, AnalysisEvent{
		UserEmail:    job.UserEmail,
		MeetingTitle: meeting.Title,
		ClientName:   meeting.ClientName,
		Status:       StatusCompleted,
	})
	return true
}

// failMeeting records a terminal failure. Persistence and notification
// problems here are logged and swallowed; the pipeline has nothing better to
// do with them.
func (s *Service) failMeeting(ctx context.Context, meeting Meeting, userEmail string, cause error) {
	classification := Classify(cause)
	metrics.IncAnalysisFailed()
	telemetry.Error("analysis.failed", map[string]any{
		"correlation_id": CorrelationIDFromContext(ctx),
		"meeting_id":     meeting.ID,
		"category":       classification.Category,
		"error":          classification.TechnicalDetail,
	})

	if err := s.Repo.Fail(ctx, meeting.ID, classification.TechnicalDetail, s.now().UTC()); err != nil {
		telemetry.Error("analysis.fail_write_failed", map[string]any{
			"correlation_id": CorrelationIDFromContext(ctx),
			"meeting_id":     meeting.ID,
			"error":          err.Error(),
		})
	}

	s.Notifier.AnalysisFinished(ctx, AnalysisEvent{
		UserEmail:      userEmail,
		MeetingTitle:   meeting.Title,
		ClientName:     meeting.ClientName,
		Status:         StatusFailed,
		Classification: &classification,
	})
}

func resourceSuggestions(in []llm.Resource) []ResourceSuggestion {
	if len(in) == 0 {
		return nil
	}
	out := make([]ResourceSuggestion, 0, len(in))
	for _, r := range in {
		out = append(out, ResourceSuggestion{Title: r.Title, Reason: r.Reason})
	}
	return out
}

func socialScripts(in []llm.ShortFormScript) []SocialScript {
	if len(in) == 0 {
		return nil
	}
	out := make([]SocialScript, 0, len(in))
	for _, sc := range in {
		out = append(out, SocialScript{Title: sc.Title, Hook: sc.Hook, Script: sc.Script, Hashtags: sc.Hashtags})
	}
	return out
}
