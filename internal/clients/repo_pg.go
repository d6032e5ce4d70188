package clients

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGDirectory implements Directory using Postgres.
type PGDirectory struct {
	DB *sql.DB
}

// FindByEmail matches a participant email against client emails, then user
// emails. A client-email hit wins over a user-email hit; within each the
// oldest client breaks ties.
func (d *PGDirectory) FindByEmail(ctx context.Context, email string) (CustomerMatch, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return CustomerMatch{}, ErrNotFound
	}
	const query = `
SELECT u.id, c.id, c.name, u.email
FROM clients c
JOIN users u ON u.id = c.user_id
WHERE lower(c.email) = $1 OR lower(u.email) = $1
ORDER BY (lower(c.email) = $1) DESC, c.created_at, c.id
LIMIT 1`
	return d.scanMatch(ctx, query, email)
}

// FindByName matches a participant name against client names by substring in
// either direction. The longest client name wins so "Sarah Smith" beats
// "Sarah" when both contain the participant; remaining ties break on the
// oldest client.
func (d *PGDirectory) FindByName(ctx context.Context, name string) (CustomerMatch, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CustomerMatch{}, ErrNotFound
	}
	const query = `
SELECT u.id, c.id, c.name, u.email
FROM clients c
JOIN users u ON u.id = c.user_id
WHERE lower(c.name) LIKE '%' || $1 || '%' OR $1 LIKE '%' || lower(c.name) || '%'
ORDER BY length(c.name) DESC, c.created_at, c.id
LIMIT 1`
	return d.scanMatch(ctx, query, name)
}

func (d *PGDirectory) scanMatch(ctx context.Context, query, arg string) (CustomerMatch, error) {
	var match CustomerMatch
	err := d.DB.QueryRowContext(ctx, query, arg).Scan(
		&match.UserID,
		&match.ClientID,
		&match.ClientName,
		&match.UserEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return CustomerMatch{}, ErrNotFound
	}
	if err != nil {
		return CustomerMatch{}, err
	}
	return match, nil
}

var _ Directory = (*PGDirectory)(nil)
