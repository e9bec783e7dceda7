package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/esiddiqui/goidc-app/config"
	"github.com/esiddiqui/goidc-app/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type OptsFunc func(*Manager)

// Manager owns the session store: it mints session ids, applies the
// configured time-to-live on create & runs the periodic expiry sweep.
type Manager struct {
	store         Store
	ttl           time.Duration
	sweepInterval time.Duration
	stop          chan struct{}
}

// builder

// WithStore adds a session store to the sessionManager
func WithStore(store Store) OptsFunc {
	return func(manager *Manager) {
		manager.store = store
	}
}

// NewSessionManager creates & returns a new session Manager with the
// supplied options
func NewSessionManager(cfg *config.SessionConfig, opts ...OptsFunc) (*Manager, error) {

	mgr := &Manager{
		ttl:           cfg.TtlDuration(),
		sweepInterval: cfg.SweepIntervalDuration(),
		stop:          make(chan struct{}),
	}

	storeConfig := cfg.Store
	switch storeConfig.Type {
	case config.StoreTypeMemory, "":
		mgr.store = NewInMemorySessionStore()
	case config.StoreTypeRedis:
		addr := storeConfig.Host
		if storeConfig.Port != 0 {
			addr = fmt.Sprintf("%v:%v", storeConfig.Host, storeConfig.Port)
		}
		store, err := NewRedisSessionStore(addr, "")
		if err != nil {
			return nil, err
		}
		mgr.store = store
	default:
		return nil, errors.Errorf("session store type %v not supported", storeConfig.Type)
	}

	// apply opts to override any settings
	for _, opt := range opts {
		opt(mgr)
	}

	return mgr, nil
}

// NewSessionId mints an opaque, unguessable-enough session identifier;
// a v4 uuid rendered without hyphens, 32 hex chars.
func NewSessionId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// methods

// Create mints a fresh session for the supplied token/user pair with
// the configured ttl, stores it & returns it
func (m *Manager) Create(ctx context.Context, accessToken string, user types.User) (Session, error) {
	return m.CreateWithTtl(ctx, accessToken, user, 0)
}

// CreateWithTtl is Create with an explicit time-to-live, used to align
// the session expiry with the token's expires_in when the auth server
// supplies one. A non-positive ttl falls back to the configured value.
func (m *Manager) CreateWithTtl(ctx context.Context, accessToken string, user types.User, ttl time.Duration) (Session, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	sess := Session{
		Id:          NewSessionId(),
		AccessToken: accessToken,
		User:        user,
		ExpiresAt:   time.Now().Add(ttl),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return Session{}, errors.Wrapf(err, "error storing new session %v", sess.Id)
	}
	log.WithField("session_id", sess.Id).Debug("new session created")
	return sess, nil
}

// Get returns the live session for the supplied id, or nil
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// GetByToken returns the live session holding the supplied access
// token, or nil
func (m *Manager) GetByToken(ctx context.Context, token string) (*Session, error) {
	return m.store.GetByToken(ctx, token)
}

// Logout deletes the session holding the supplied access token. A token
// no live session holds is not an error; logout is idempotent.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	log.WithField("session_id", sess.Id).Debug("session removed on logout")
	return m.store.Delete(ctx, sess.Id)
}

// StartSweeper runs the periodic expiry sweep until Stop is called.
// The sweep is a memory backstop only; reads already refuse & remove
// expired entries on their own.
func (m *Manager) StartSweeper() {
	go func() {
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := m.store.Sweep(context.Background())
				if err != nil {
					log.WithError(err).Error("error sweeping expired sessions")
					continue
				}
				if removed > 0 {
					log.WithField("count", removed).Debug("expired sessions swept")
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper
func (m *Manager) Stop() {
	close(m.stop)
}
