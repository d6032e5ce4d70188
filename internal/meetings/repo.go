package meetings

import (
	"context"
	"time"
)

// Repo defines persistence operations for meeting analysis records.
//
// Complete and Fail are idempotent when repeated with the same terminal
// status and return ErrTerminalConflict when asked to overwrite the opposite
// one. Complete writes every result field in one statement so partial
// results are never observable; Fail writes the status and the sanitized
// error detail that read-time classification is derived from.
type Repo interface {
	Create(ctx context.Context, meeting Meeting) error
	GetByID(ctx context.Context, meetingID string) (Meeting, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Meeting, error)
	Complete(ctx context.Context, meetingID string, results AnalysisResults, completedAt time.Time) error
	Fail(ctx context.Context, meetingID string, errorDetail string, failedAt time.Time) error
}
