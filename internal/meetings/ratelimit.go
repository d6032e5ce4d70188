package meetings

import (
	"sync"
	"time"
)

const defaultSubmitInterval = 30 * time.Second

// SubmitLimiter enforces a minimum interval between accepted analysis
// submissions per user. CheckAllowed never mutates; RecordSubmission is
// called only after the entry point has fully accepted a request, so a
// rejected request never consumes the window. Two concurrent submissions may
// both observe "allowed" before either records; that race is accepted.
type SubmitLimiter struct {
	mu         sync.RWMutex
	lastSubmit map[string]time.Time
	now        func() time.Time
	interval   time.Duration
}

// NewSubmitLimiter constructs a SubmitLimiter. A nil now func uses time.Now.
func NewSubmitLimiter(interval time.Duration, now func() time.Time) *SubmitLimiter {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = defaultSubmitInterval
	}
	return &SubmitLimiter{
		lastSubmit: make(map[string]time.Time),
		now:        now,
		interval:   interval,
	}
}

// CheckAllowed reports whether the user may submit and, if not, how long
// until the window reopens.
func (l *SubmitLimiter) CheckAllowed(userID string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := l.now()
	l.mu.RLock()
	last, ok := l.lastSubmit[userID]
	l.mu.RUnlock()
	if !ok {
		return true, 0
	}
	elapsed := now.Sub(last)
	if elapsed >= l.interval {
		return true, 0
	}
	return false, l.interval - elapsed
}

// RecordSubmission marks the user's accepted submission time.
func (l *SubmitLimiter) RecordSubmission(userID string) {
	if l == nil {
		return
	}
	now := l.now()
	l.mu.Lock()
	l.lastSubmit[userID] = now
	l.mu.Unlock()
}
