package session

import (
	"context"
	"time"

	"github.com/esiddiqui/goidc-app/types"
)

// Session is the server-side record created after a successful
// authorization-code exchange. The browser only ever holds the opaque
// session id; the access token & profile stay on this side.
type Session struct {
	Id          string     `json:"id"`
	AccessToken string     `json:"accessToken"`
	User        types.User `json:"user"`
	ExpiresAt   time.Time  `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store defines a session store interface to be implemented by a
// concrete object.
//
// Get & GetByToken must treat an expired entry exactly like a missing
// one (nil, nil) & remove it as a side-effect of the read; a caller can
// never observe a session past its expiry regardless of sweep timing.
// Sweep exists only to bound memory growth from sessions nobody reads
// again.
type Store interface {
	Put(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (*Session, error)
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context) (int, error)
}
