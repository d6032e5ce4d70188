package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
)

// BreakerProvider wraps a Provider with a circuit breaker so a provider that
// is down stops eating its timeout on every call and the chain falls through
// to the next provider immediately.
type BreakerProvider struct {
	base    Provider
	breaker *gobreaker.CircuitBreaker[string]
}

// WithBreaker wraps the provider in a circuit breaker.
func WithBreaker(base Provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        base.Name(),
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("llm.breaker_state", map[string]any{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			})
		},
	}
	return &BreakerProvider{
		base:    base,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Name returns the underlying provider's name.
func (p *BreakerProvider) Name() string { return p.base.Name() }

// Infer delegates through the breaker.
func (p *BreakerProvider) Infer(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return p.breaker.Execute(func() (string, error) {
		return p.base.Infer(ctx, systemPrompt, userPrompt, maxTokens)
	})
}

var _ Provider = (*BreakerProvider)(nil)
