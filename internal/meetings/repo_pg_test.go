package meetings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateInsertsProcessing(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()
	started := now

	meeting := Meeting{
		ID:                "m-1",
		CorrelationID:     "fathom-1-abc",
		UserID:            "user-1",
		ClientID:          "client-1",
		ClientName:        "Jamie Chen",
		Source:            SourceFathom,
		ExternalMeetingID: "ext-1",
		Title:             "Check-in",
		MeetingDate:       now,
		DurationMinutes:   45,
		Transcript:        "hello",
		Status:            StatusProcessing,
		StartedAt:         &started,
		CreatedAt:         now,
	}

	mock.ExpectExec("INSERT INTO meetings").
		WithArgs(
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
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), meeting); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoCompleteGuardedOnProcessing(t *testing.T) {
	repo, mock := newPGRepo(t)
	completedAt := time.Now().UTC()

	results := AnalysisResults{
		IsDiscovery: true,
		Summary:     "summary",
		PainPoint:   "pain",
		Goal:        "goal",
		Suggestions: "do things",
	}

	mock.ExpectExec("UPDATE meetings").
		WithArgs(
			"m-1",
			StatusCompleted,
			results.IsDiscovery,
			results.Summary,
			results.PainPoint,
			results.Goal,
			results.Suggestions,
			sqlmock.AnyArg(), // client_action_items
			sqlmock.AnyArg(), // coach_action_items
			results.EmailSubject,
			results.EmailBody,
			sqlmock.AnyArg(), // mind_map
			sqlmock.AnyArg(), // resources
			sqlmock.AnyArg(), // social_content
			completedAt,
			StatusProcessing,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Complete(context.Background(), "m-1", results, completedAt); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoCompleteIdempotentOnRepeat(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("UPDATE meetings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM meetings").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusCompleted))

	if err := repo.Complete(context.Background(), "m-1", AnalysisResults{}, time.Now()); err != nil {
		t.Fatalf("repeated complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoCompleteConflictsWithFailed(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("UPDATE meetings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM meetings").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusFailed))

	err := repo.Complete(context.Background(), "m-1", AnalysisResults{}, time.Now())
	if !errors.Is(err, ErrTerminalConflict) {
		t.Fatalf("err = %v, want ErrTerminalConflict", err)
	}
}

func TestPGRepoFailWritesErrorDetail(t *testing.T) {
	repo, mock := newPGRepo(t)
	failedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE meetings").
		WithArgs("m-1", StatusFailed, "all providers failed: openai: http status 500", failedAt, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Fail(context.Background(), "m-1", "all providers failed: openai: http status 500", failedAt); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoFailConflictsWithCompleted(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("UPDATE meetings").
		WithArgs("m-1", StatusFailed, "openai: http status 500", sqlmock.AnyArg(), StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM meetings").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(StatusCompleted))

	err := repo.Fail(context.Background(), "m-1", "openai: http status 500", time.Now())
	if !errors.Is(err, ErrTerminalConflict) {
		t.Fatalf("err = %v, want ErrTerminalConflict", err)
	}
}

func TestPGRepoTerminalWriteOnMissingRecord(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectExec("UPDATE meetings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM meetings").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	if err := repo.Fail(context.Background(), "m-1", "boom", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func meetingColumns() []string {
	return []string{
		"id", "correlation_id", "user_id", "client_id", "client_name", "source", "external_meeting_id",
		"title", "meeting_date", "duration_minutes", "transcript", "recording_url", "status",
		"is_discovery", "summary", "pain_point", "goal", "suggestions",
		"client_action_items", "coach_action_items", "email_subject", "email_body",
		"mind_map", "resources", "social_content", "error_detail",
		"started_at", "completed_at", "created_at", "updated_at",
	}
}

func TestPGRepoGetByIDReconstructsResults(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(meetingColumns()).AddRow(
		"m-1", "fathom-1-abc", "user-1", "client-1", "Jamie Chen", "fathom", "ext-1",
		"Check-in", now, 45, "transcript", "", StatusCompleted,
		true, "summary text", "pain", "goal", "suggestions",
		`["write outline"]`, `["send worksheet"]`, "subject", "body",
		`{"root":"goals"}`, `[{"title":"Deep Work","reason":"focus"}]`,
		`[{"title":"Focus tip","hook":"h","script":"s","hashtags":["#c"]}]`, nil,
		now, now, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM meetings").
		WithArgs("m-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Results == nil {
		t.Fatal("results missing")
	}
	if !got.Results.IsDiscovery || got.Results.Summary != "summary text" {
		t.Errorf("results = %+v", got.Results)
	}
	if len(got.Results.ClientActionItems) != 1 || got.Results.ClientActionItems[0] != "write outline" {
		t.Errorf("client items = %v", got.Results.ClientActionItems)
	}
	if len(got.Results.Resources) != 1 || got.Results.Resources[0].Title != "Deep Work" {
		t.Errorf("resources = %v", got.Results.Resources)
	}
	if len(got.Results.SocialContent) != 1 || len(got.Results.SocialContent[0].Hashtags) != 1 {
		t.Errorf("social = %v", got.Results.SocialContent)
	}
}

func TestPGRepoGetByIDProcessingHasNoResults(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(meetingColumns()).AddRow(
		"m-1", "fathom-1-abc", "user-1", "client-1", "Jamie Chen", "fathom", "ext-1",
		"Check-in", now, 45, "transcript", "", StatusProcessing,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		now, nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM meetings").
		WithArgs("m-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Results != nil {
		t.Errorf("results = %+v, want nil", got.Results)
	}
	if got.CompletedAt != nil {
		t.Errorf("completedAt = %v, want nil", got.CompletedAt)
	}
}

func TestPGRepoGetByIDFailedCarriesErrorDetail(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(meetingColumns()).AddRow(
		"m-1", "fathom-1-abc", "user-1", "client-1", "Jamie Chen", "fathom", "ext-1",
		"Check-in", now, 45, "transcript", "", StatusFailed,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, "summarize meeting: all providers failed: openai: http status 500",
		now, now, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM meetings").
		WithArgs("m-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ErrorDetail != "summarize meeting: all providers failed: openai: http status 500" {
		t.Errorf("errorDetail = %q", got.ErrorDetail)
	}
	if got.Results != nil {
		t.Errorf("results = %+v, want nil", got.Results)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM meetings").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(meetingColumns()))

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
