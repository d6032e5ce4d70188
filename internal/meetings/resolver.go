package meetings

import (
	"context"
	"errors"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/clients"
)

// Resolver maps meeting participants to a single existing client record.
type Resolver struct {
	Directory clients.Directory
}

// Resolve runs two passes over the participants in input order: first exact
// email matches, then name matches, only if no email matched anywhere. The
// first participant that yields a match wins and later participants are never
// consulted, even if one of them would match "better". A nil match with nil
// error is the normal no-match outcome.
func (r *Resolver) Resolve(ctx context.Context, participants []Participant) (*clients.CustomerMatch, error) {
	for _, p := range participants {
		if p.Email == "" {
			continue
		}
		match, err := r.Directory.FindByEmail(ctx, p.Email)
		if err == nil {
			return &match, nil
		}
		if !errors.Is(err, clients.ErrNotFound) {
			return nil, err
		}
	}

	for _, p := range participants {
		if p.Name == "" {
			continue
		}
		match, err := r.Directory.FindByName(ctx, p.Name)
		if err == nil {
			return &match, nil
		}
		if !errors.Is(err, clients.ErrNotFound) {
			return nil, err
		}
	}

	return nil, nil
}
