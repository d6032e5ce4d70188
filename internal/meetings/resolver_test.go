package meetings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/clients"
)

func seededDirectory() *clients.MemoryDirectory {
	dir := clients.NewMemoryDirectory()
	dir.AddUser(clients.User{ID: "user-1", Email: "coach@example.com", Name: "Coach"})
	dir.AddClient(clients.Client{
		ID: "client-1", UserID: "user-1", Name: "Jamie Chen",
		Email: "jamie@example.com", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	dir.AddClient(clients.Client{
		ID: "client-2", UserID: "user-1", Name: "Morgan Lee",
		Email: "morgan@example.com", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	return dir
}

func TestResolveEmailPassBeforeNamePass(t *testing.T) {
	r := &Resolver{Directory: seededDirectory()}

	// The first participant's name would match client-1, but the second
	// participant's email pass runs first across all participants.
	participants := []Participant{
		{Name: "Jamie Chen"},
		{Name: "Someone Else", Email: "morgan@example.com"},
	}
	match, err := r.Resolve(context.Background(), participants)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match == nil || match.ClientID != "client-2" {
		t.Fatalf("match = %+v, want client-2", match)
	}
}

func TestResolveFirstEmailMatchWins(t *testing.T) {
	r := &Resolver{Directory: seededDirectory()}

	participants := []Participant{
		{Name: "A", Email: "nobody@example.com"},
		{Name: "B", Email: "jamie@example.com"},
		{Name: "C", Email: "morgan@example.com"},
	}
	match, err := r.Resolve(context.Background(), participants)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match == nil || match.ClientID != "client-1" {
		t.Fatalf("match = %+v, want client-1", match)
	}
}

func TestResolveFallsBackToNames(t *testing.T) {
	r := &Resolver{Directory: seededDirectory()}

	participants := []Participant{
		{Name: "Unknown Person", Email: "nobody@example.com"},
		{Name: "Morgan Lee"},
	}
	match, err := r.Resolve(context.Background(), participants)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match == nil || match.ClientID != "client-2" {
		t.Fatalf("match = %+v, want client-2", match)
	}
}

func TestResolveUserEmailMapsToOwnedClient(t *testing.T) {
	r := &Resolver{Directory: seededDirectory()}

	match, err := r.Resolve(context.Background(), []Participant{
		{Name: "Coach", Email: "coach@example.com"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match == nil || match.UserID != "user-1" {
		t.Fatalf("match = %+v, want user-1", match)
	}
	if match.UserEmail != "coach@example.com" {
		t.Errorf("user email = %q", match.UserEmail)
	}
}

func TestResolveNoMatchIsNilNil(t *testing.T) {
	r := &Resolver{Directory: seededDirectory()}

	match, err := r.Resolve(context.Background(), []Participant{
		{Name: "Stranger", Email: "stranger@example.com"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match != nil {
		t.Fatalf("match = %+v, want nil", match)
	}
}

type failingDirectory struct {
	err error
}

func (d failingDirectory) FindByEmail(ctx context.Context, email string) (clients.CustomerMatch, error) {
	return clients.CustomerMatch{}, d.err
}

func (d failingDirectory) FindByName(ctx context.Context, name string) (clients.CustomerMatch, error) {
	return clients.CustomerMatch{}, d.err
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("postgres: connection refused")
	r := &Resolver{Directory: failingDirectory{err: storeErr}}

	_, err := r.Resolve(context.Background(), []Participant{{Email: "x@example.com"}})
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
