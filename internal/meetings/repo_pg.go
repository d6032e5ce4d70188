package meetings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new meeting record. Records are born processing; the
// pending state is never persisted.
func (r *PGRepo) Create(ctx context.Context, meeting Meeting) error {
	const query = `
INSERT INTO meetings (
	id, correlation_id, user_id, client_id, client_name, source, external_meeting_id,
	title, meeting_date, duration_minutes, transcript, recording_url, status,
	started_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`
	_, err := r.DB.ExecContext(ctx, query,
		meeting.ID,
		meeting.CorrelationID,
		meeting.UserID,
		meeting.ClientID,
		meeting.ClientName,
		string(meeting.Source),
		meeting.ExternalMeetingID,
		meeting.Title,
		meeting.MeetingDate,
		meeting.DurationMinutes,
		meeting.Transcript,
		meeting.RecordingURL,
		StatusProcessing,
		meeting.StartedAt,
		meeting.CreatedAt,
	)
	return err
}

// GetByID returns a meeting by ID.
func (r *PGRepo) GetByID(ctx context.Context, meetingID string) (Meeting, error) {
	const query = `
SELECT id, correlation_id, user_id, client_id, client_name, source, external_meeting_id,
       title, meeting_date, duration_minutes, transcript, recording_url, status,
       is_discovery, summary, pain_point, goal, suggestions,
       client_action_items, coach_action_items, email_subject, email_body,
       mind_map, resources, social_content, error_detail,
       started_at, completed_at, created_at, updated_at
FROM meetings
WHERE id = $1
LIMIT 1`
	meeting, err := scanMeeting(r.DB.QueryRowContext(ctx, query, meetingID))
	if errors.Is(err, sql.ErrNoRows) {
		return Meeting{}, ErrNotFound
	}
	return meeting, err
}

// ListByUser returns meetings for a user, newest first, with limit/offset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Meeting, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, correlation_id, user_id, client_id, client_name, source, external_meeting_id,
       title, meeting_date, duration_minutes, transcript, recording_url, status,
       is_discovery, summary, pain_point, goal, suggestions,
       client_action_items, coach_action_items, email_subject, email_body,
       mind_map, resources, social_content, error_detail,
       started_at, completed_at, created_at, updated_at
FROM meetings
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := []Meeting{}
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

// Complete writes every result field and the completed status in one
// statement, guarded on the current status so a completed-over-failed write
// can never happen.
func (r *PGRepo) Complete(ctx context.Context, meetingID string, results AnalysisResults, completedAt time.Time) error {
	clientItems, err := marshalJSONB(results.ClientActionItems)
	if err != nil {
		return err
	}
	coachItems, err := marshalJSONB(results.CoachActionItems)
	if err != nil {
		return err
	}
	mindMap, err := marshalJSONB(results.MindMap)
	if err != nil {
		return err
	}
	resources, err := marshalJSONB(results.Resources)
	if err != nil {
		return err
	}
	social, err := marshalJSONB(results.SocialContent)
	if err != nil {
		return err
	}

	const query = `
UPDATE meetings
SET status = $2, is_discovery = $3, summary = $4, pain_point = $5, goal = $6,
    suggestions = $7, client_action_items = $8, coach_action_items = $9,
    email_subject = $10, email_body = $11, mind_map = $12, resources = $13,
    social_content = $14, completed_at = $15, updated_at = now()
WHERE id = $1 AND status = $16`
	res, err := r.DB.ExecContext(ctx, query,
		meetingID,
		StatusCompleted,
		results.IsDiscovery,
		results.Summary,
		results.PainPoint,
		results.Goal,
		results.Suggestions,
		clientItems,
		coachItems,
		results.EmailSubject,
		results.EmailBody,
		mindMap,
		resources,
		social,
		completedAt,
		StatusProcessing,
	)
	if err != nil {
		return err
	}
	return r.checkTerminalWrite(ctx, meetingID, res, StatusCompleted)
}

// Fail writes the failed status and the sanitized error detail; result
// columns stay as they are.
func (r *PGRepo) Fail(ctx context.Context, meetingID string, errorDetail string, failedAt time.Time) error {
	const query = `
UPDATE meetings
SET status = $2, error_detail = $3, completed_at = $4, updated_at = now()
WHERE id = $1 AND status = $5`
	res, err := r.DB.ExecContext(ctx, query, meetingID, StatusFailed, errorDetail, failedAt, StatusProcessing)
	if err != nil {
		return err
	}
	return r.checkTerminalWrite(ctx, meetingID, res, StatusFailed)
}

// checkTerminalWrite resolves a zero-row terminal update: repeating the same
// terminal status is an idempotent no-op, the opposite one is a conflict.
func (r *PGRepo) checkTerminalWrite(ctx context.Context, meetingID string, res sql.Result, wanted string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	var current string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM meetings WHERE id = $1`, meetingID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if current == wanted {
		return nil
	}
	return fmt.Errorf("%w: have %s, want %s", ErrTerminalConflict, current, wanted)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (Meeting, error) {
	var (
		m           Meeting
		source      string
		isDiscovery sql.NullBool
		summary     sql.NullString
		painPoint   sql.NullString
		goal        sql.NullString
		suggestions sql.NullString
		clientItems sql.NullString
		coachItems  sql.NullString
		emailSubj   sql.NullString
		emailBody   sql.NullString
		mindMap     sql.NullString
		resources   sql.NullString
		social      sql.NullString
		errDetail   sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&m.ID, &m.CorrelationID, &m.UserID, &m.ClientID, &m.ClientName, &source, &m.ExternalMeetingID,
		&m.Title, &m.MeetingDate, &m.DurationMinutes, &m.Transcript, &m.RecordingURL, &m.Status,
		&isDiscovery, &summary, &painPoint, &goal, &suggestions,
		&clientItems, &coachItems, &emailSubj, &emailBody,
		&mindMap, &resources, &social, &errDetail,
		&startedAt, &completedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return Meeting{}, err
	}
	m.Source = Source(source)
	m.ErrorDetail = errDetail.String
	if startedAt.Valid {
		t := startedAt.Time
		m.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	if m.Status == StatusCompleted && summary.Valid {
		results := AnalysisResults{
			IsDiscovery:  isDiscovery.Bool,
			Summary:      summary.String,
			PainPoint:    painPoint.String,
			Goal:         goal.String,
			Suggestions:  suggestions.String,
			EmailSubject: emailSubj.String,
			EmailBody:    emailBody.String,
		}
		if err := unmarshalJSONB(clientItems, &results.ClientActionItems); err != nil {
			return Meeting{}, err
		}
		if err := unmarshalJSONB(coachItems, &results.CoachActionItems); err != nil {
			return Meeting{}, err
		}
		if err := unmarshalJSONB(mindMap, &results.MindMap); err != nil {
			return Meeting{}, err
		}
		if err := unmarshalJSONB(resources, &results.Resources); err != nil {
			return Meeting{}, err
		}
		if err := unmarshalJSONB(social, &results.SocialContent); err != nil {
			return Meeting{}, err
		}
		m.Results = &results
	}
	return m, nil
}

func marshalJSONB(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return string(data), nil
}

func unmarshalJSONB(raw sql.NullString, dest any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dest); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
