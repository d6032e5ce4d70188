package queue

import "encoding/json"

// Message is the payload sent to downstream queue consumers. The transcript
// rides along in memory only; the record keeps just a truncated copy, so the
// worker would otherwise never see the full text.
type Message struct {
	MeetingID     string `json:"meetingId"`
	CorrelationID string `json:"correlationId"`
	Transcript    string `json:"transcript,omitempty"`
	UserEmail     string `json:"userEmail,omitempty"`
	EnqueuedAt    string `json:"enqueuedAt"`
	Version       int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
