// Package directory resolves guest references to deliverable recipients.
// The guest table is owned by the wedding site; this service only reads it.
package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGuestNotFound = errors.New("guest not found")

type Guest struct {
	ID         string
	Name       string
	Email      string
	LoginToken string
}

type Directory interface {
	FindByID(ctx context.Context, id string) (*Guest, error)
}

// PGDirectory reads guests from the site's Postgres database.
type PGDirectory struct {
	Pool *pgxpool.Pool
}

func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{Pool: pool}
}

func (d *PGDirectory) FindByID(ctx context.Context, id string) (*Guest, error) {
	g := &Guest{}
	err := d.Pool.QueryRow(ctx,
		`SELECT id, name, email, login_token FROM guests WHERE id=$1`, id).
		Scan(&g.ID, &g.Name, &g.Email, &g.LoginToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Static serves a fixed guest list from memory, for tests and for console
// mode runs without a database.
type Static struct {
	guests map[string]Guest
}

func NewStatic(guests ...Guest) *Static {
	m := make(map[string]Guest, len(guests))
	for _, g := range guests {
		m[g.ID] = g
	}
	return &Static{guests: m}
}

func (s *Static) FindByID(_ context.Context, id string) (*Guest, error) {
	g, ok := s.guests[id]
	if !ok {
		return nil, ErrGuestNotFound
	}
	cp := g
	return &cp, nil
}
