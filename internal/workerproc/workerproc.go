package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/meetings"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body []byte) MessageMeta {
	if len(body) == 0 {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256(body)
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingMeetingID indicates a message missing the meeting id.
type ErrMissingMeetingID struct {
	Meta          MessageMeta
	CorrelationID string
}

func (e ErrMissingMeetingID) Error() string { return "missing meeting id" }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body []byte) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if len(strings.TrimSpace(string(body))) == 0 {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage(body)
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.MeetingID) == "" {
		return msg, meta, ErrMissingMeetingID{Meta: meta, CorrelationID: msg.CorrelationID}
	}
	return msg, meta, nil
}

// Processor executes one analysis job. Satisfied by *meetings.Service.
type Processor interface {
	ExecuteAnalysis(ctx context.Context, job meetings.Job) bool
}

// HandleMessage parses a queue payload and runs the analysis. Parse errors
// come back to the caller so the consumer can decide what to log; execution
// outcomes are already recorded on the meeting and never surface as errors.
func HandleMessage(ctx context.Context, processor Processor, body []byte) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	processor.ExecuteAnalysis(ctx, meetings.Job{
		MeetingID:     msg.MeetingID,
		CorrelationID: msg.CorrelationID,
		Transcript:    msg.Transcript,
		UserEmail:     msg.UserEmail,
	})
	return nil
}
