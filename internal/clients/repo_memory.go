package clients

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryDirectory stores clients in memory and is safe for concurrent use.
type MemoryDirectory struct {
	mu      sync.RWMutex
	clients []Client
	users   map[string]User
}

// NewMemoryDirectory constructs a MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]User)}
}

// AddUser registers an owning user.
func (d *MemoryDirectory) AddUser(user User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

// AddClient registers a client.
func (d *MemoryDirectory) AddClient(client Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients = append(d.clients, client)
}

// FindByEmail matches the email against client emails, then user emails.
func (d *MemoryDirectory) FindByEmail(ctx context.Context, email string) (CustomerMatch, error) {
	if err := ctx.Err(); err != nil {
		return CustomerMatch{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return CustomerMatch{}, ErrNotFound
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	ordered := d.orderedClients()
	for _, c := range ordered {
		if strings.ToLower(c.Email) == email {
			return d.matchFor(c), nil
		}
	}
	for _, c := range ordered {
		if u, ok := d.users[c.UserID]; ok && strings.ToLower(u.Email) == email {
			return d.matchFor(c), nil
		}
	}
	return CustomerMatch{}, ErrNotFound
}

// FindByName matches the name against client names by substring in either
// direction, preferring the longest client name.
func (d *MemoryDirectory) FindByName(ctx context.Context, name string) (CustomerMatch, error) {
	if err := ctx.Err(); err != nil {
		return CustomerMatch{}, err
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CustomerMatch{}, ErrNotFound
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	ordered := d.orderedClients()
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Name) > len(ordered[j].Name)
	})
	for _, c := range ordered {
		clientName := strings.ToLower(c.Name)
		if clientName == "" {
			continue
		}
		if strings.Contains(clientName, name) || strings.Contains(name, clientName) {
			return d.matchFor(c), nil
		}
	}
	return CustomerMatch{}, ErrNotFound
}

func (d *MemoryDirectory) orderedClients() []Client {
	ordered := make([]Client, len(d.clients))
	copy(ordered, d.clients)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func (d *MemoryDirectory) matchFor(c Client) CustomerMatch {
	match := CustomerMatch{
		UserID:     c.UserID,
		ClientID:   c.ID,
		ClientName: c.Name,
	}
	if u, ok := d.users[c.UserID]; ok {
		match.UserEmail = u.Email
	}
	return match
}

var _ Directory = (*MemoryDirectory)(nil)
