package meetings

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores meetings in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Meeting
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Meeting),
		byUser: make(map[string][]string),
	}
}

// Create stores the meeting.
func (r *MemoryRepo) Create(ctx context.Context, meeting Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[meeting.ID] = meeting
	r.byUser[meeting.UserID] = append(r.byUser[meeting.UserID], meeting.ID)
	return nil
}

// GetByID returns a meeting by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, meetingID string) (Meeting, error) {
	if err := ctx.Err(); err != nil {
		return Meeting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	meeting, ok := r.byID[meetingID]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	return meeting, nil
}

// ListByUser returns meetings for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	out := make([]Meeting, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Meeting{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Complete writes all result fields and the completed status in one step.
func (r *MemoryRepo) Complete(ctx context.Context, meetingID string, results AnalysisResults, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.byID[meetingID]
	if !ok {
		return ErrNotFound
	}
	switch meeting.Status {
	case StatusCompleted:
		return nil
	case StatusFailed:
		return ErrTerminalConflict
	}
	resultsCopy := results
	meeting.Status = StatusCompleted
	meeting.Results = &resultsCopy
	meeting.CompletedAt = &completedAt
	meeting.UpdatedAt = time.Now().UTC()
	r.byID[meetingID] = meeting
	return nil
}

// Fail writes the failed status and the sanitized error detail, leaving
// every result field untouched.
func (r *MemoryRepo) Fail(ctx context.Context, meetingID string, errorDetail string, failedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.byID[meetingID]
	if !ok {
		return ErrNotFound
	}
	switch meeting.Status {
	case StatusFailed:
		return nil
	case StatusCompleted:
		return ErrTerminalConflict
	}
	meeting.Status = StatusFailed
	meeting.ErrorDetail = errorDetail
	meeting.CompletedAt = &failedAt
	meeting.UpdatedAt = time.Now().UTC()
	r.byID[meetingID] = meeting
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
