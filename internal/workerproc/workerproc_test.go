package workerproc

import (
	"context"
	"errors"
	"testing"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/meetings"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/queue"
)

type recordingProcessor struct {
	jobs []meetings.Job
	ok   bool
}

func (p *recordingProcessor) ExecuteAnalysis(ctx context.Context, job meetings.Job) bool {
	p.jobs = append(p.jobs, job)
	return p.ok
}

func TestParseMessage(t *testing.T) {
	body := []byte(`{"meetingId":"m-1","correlationId":"fathom-1-abc","transcript":"hello","userEmail":"coach@example.com","enqueuedAt":"2025-06-01T12:00:00Z","version":1}`)

	msg, meta, err := ParseMessage(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.MeetingID != "m-1" || msg.CorrelationID != "fathom-1-abc" {
		t.Errorf("msg = %+v", msg)
	}
	if msg.Transcript != "hello" || msg.UserEmail != "coach@example.com" {
		t.Errorf("msg payload = %+v", msg)
	}
	if meta.BodyLen != len(body) || meta.BodySHA == "" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestParseMessageErrors(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		want any
	}{
		{"empty", []byte(""), &ErrEmptyBody{}},
		{"whitespace", []byte("   \n"), &ErrEmptyBody{}},
		{"bad json", []byte("{nope"), &ErrDecode{}},
		{"missing meeting id", []byte(`{"correlationId":"x"}`), &ErrMissingMeetingID{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMessage(tc.body)
			if err == nil {
				t.Fatal("expected error")
			}
			switch tc.want.(type) {
			case *ErrEmptyBody:
				var target ErrEmptyBody
				if !errors.As(err, &target) {
					t.Errorf("err = %T %v", err, err)
				}
			case *ErrDecode:
				var target ErrDecode
				if !errors.As(err, &target) {
					t.Errorf("err = %T %v", err, err)
				}
			case *ErrMissingMeetingID:
				var target ErrMissingMeetingID
				if !errors.As(err, &target) {
					t.Errorf("err = %T %v", err, err)
				}
			}
		})
	}
}

func TestHandleMessageRunsProcessor(t *testing.T) {
	processor := &recordingProcessor{ok: true}
	body, err := queue.EncodeMessage(queue.Message{
		MeetingID:     "m-1",
		CorrelationID: "fathom-1-abc",
		Transcript:    "full transcript",
		UserEmail:     "coach@example.com",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := HandleMessage(context.Background(), processor, body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(processor.jobs) != 1 {
		t.Fatalf("jobs = %+v", processor.jobs)
	}
	job := processor.jobs[0]
	if job.MeetingID != "m-1" || job.Transcript != "full transcript" || job.UserEmail != "coach@example.com" {
		t.Errorf("job = %+v", job)
	}
}

func TestHandleMessageFailedRunIsNotAnError(t *testing.T) {
	// A failed analysis is recorded on the meeting itself; the queue layer
	// must not see it as a redeliverable failure.
	processor := &recordingProcessor{ok: false}
	body, _ := queue.EncodeMessage(queue.Message{MeetingID: "m-1", CorrelationID: "x"})

	if err := HandleMessage(context.Background(), processor, body); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestHandleMessageParseErrorSurfaces(t *testing.T) {
	processor := &recordingProcessor{ok: true}
	if err := HandleMessage(context.Background(), processor, []byte("{broken")); err == nil {
		t.Fatal("expected parse error")
	}
	if len(processor.jobs) != 0 {
		t.Errorf("processor ran on unparseable payload")
	}
}
