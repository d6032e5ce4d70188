package meetings

import "fmt"

// FilterConfig holds the admission thresholds evaluated before any inference
// work is paid for. Zero max values disable the corresponding upper bound.
type FilterConfig struct {
	MinDurationMinutes int
	MaxDurationMinutes int
	MinParticipants    int
	MaxParticipants    int
}

// DefaultFilterConfig returns the stock thresholds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinDurationMinutes: 15,
		MinParticipants:    1,
	}
}

// FilterResult reports whether a meeting passed admission and, if not, a
// human-readable reason naming the observed and required values.
type FilterResult struct {
	Pass   bool
	Reason string
}

// Check evaluates the filters in a fixed order: duration minimum, duration
// maximum, participant minimum, participant maximum. A filtered-out meeting
// is an expected outcome, so this never errors.
func (c FilterConfig) Check(req AnalysisRequest) FilterResult {
	if c.MinDurationMinutes > 0 && req.DurationMinutes < c.MinDurationMinutes {
		return FilterResult{
			Reason: fmt.Sprintf("meeting duration %d min is below the %d min minimum", req.DurationMinutes, c.MinDurationMinutes),
		}
	}
	if c.MaxDurationMinutes > 0 && req.DurationMinutes > c.MaxDurationMinutes {
		return FilterResult{
			Reason: fmt.Sprintf("meeting duration %d min is above the %d min maximum", req.DurationMinutes, c.MaxDurationMinutes),
		}
	}
	if c.MinParticipants > 0 && len(req.Participants) < c.MinParticipants {
		return FilterResult{
			Reason: fmt.Sprintf("%d participants is below the minimum of %d", len(req.Participants), c.MinParticipants),
		}
	}
	if c.MaxParticipants > 0 && len(req.Participants) > c.MaxParticipants {
		return FilterResult{
			Reason: fmt.Sprintf("%d participants is above the maximum of %d", len(req.Participants), c.MaxParticipants),
		}
	}
	return FilterResult{Pass: true}
}
