// Package session replaces the original console's localStorage token with an
// explicit server-side session: one record holds the upstream credential, the
// user's identity and the active cart id, keyed by an opaque session id the
// browser presents as a bearer.
package session

import (
	"context"
	"time"

	"retail-console/internal/domain"
)

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Roles     []string  `json:"roles"`
	CartID    int64     `json:"cartId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Session) Identity() domain.Identity {
	return domain.Identity{Email: s.Email, Name: s.Name, Roles: s.Roles}
}

// Store persists sessions for the configured TTL. Get on a missing or
// expired session returns domain.ErrNotFound.
type Store interface {
	Create(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	SetCartID(ctx context.Context, id string, cartID int64) error
	Delete(ctx context.Context, id string) error
}
