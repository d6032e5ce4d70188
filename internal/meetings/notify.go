package meetings

import (
	"context"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// AnalysisEvent is emitted on every terminal state transition. A delivery
// collaborator outside this core turns it into a message to the coach.
type AnalysisEvent struct {
	UserEmail      string
	MeetingTitle   string
	ClientName     string
	Status         string
	Classification *Classification
}

// Notifier receives terminal-state events. Implementations must not block
// the pipeline; delivery failures are their own concern.
type Notifier interface {
	AnalysisFinished(ctx context.Context, event AnalysisEvent)
}

// LogNotifier writes events to the log. It is the default when no delivery
// collaborator is wired.
type LogNotifier struct{}

// AnalysisFinished logs the event.
func (LogNotifier) AnalysisFinished(ctx context.Context, event AnalysisEvent) {
	fields := map[string]any{
		"correlation_id": CorrelationIDFromContext(ctx),
		"user_email":     event.UserEmail,
		"meeting_title":  event.MeetingTitle,
		"client_name":    event.ClientName,
		"status":         event.Status,
	}
	if event.Classification != nil {
		fields["error_category"] = event.Classification.Category
		fields["error_detail"] = event.Classification.TechnicalDetail
	}
	telemetry.Info("analysis.notify", fields)
}

var _ Notifier = LogNotifier{}
