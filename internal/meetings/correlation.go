package meetings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCorrelationID builds the opaque id that tags all log output for one
// analysis run: source tag, timestamp, random suffix. It is never a lookup key.
func NewCorrelationID(source Source, now time.Time) string {
	tag := strings.TrimSpace(string(source))
	if tag == "" {
		tag = "unknown"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", tag, now.UnixMilli(), suffix)
}

type correlationIDKey struct{}

// WithCorrelationID attaches a correlation ID to the context for logging.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if ctx == nil || correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation ID attached to the context.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
