package queue

import "context"

// InlineDispatcher runs the handler on a detached goroutine in-process. It is
// the single-binary deployment mode: the analysis starts after the trigger
// response has been written, with no broker in between.
type InlineDispatcher struct {
	handle func(ctx context.Context, msg Message)
}

// NewInlineDispatcher constructs an InlineDispatcher around the handler.
func NewInlineDispatcher(handle func(ctx context.Context, msg Message)) *InlineDispatcher {
	return &InlineDispatcher{handle: handle}
}

// Send spawns the handler on a fresh background context so it outlives the
// triggering HTTP request.
func (d *InlineDispatcher) Send(ctx context.Context, msg Message) error {
	_ = ctx
	go d.handle(context.Background(), msg)
	return nil
}

var _ Client = (*InlineDispatcher)(nil)
