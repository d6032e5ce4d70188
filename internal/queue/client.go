// Package queue carries accepted analyses from the trigger path to wherever
// the background run executes. The only contract is "runs after the trigger
// response; the result is observable via the meeting record."
package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
