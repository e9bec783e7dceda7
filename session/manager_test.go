package session

import (
	"context"
	"testing"
	"time"

	"github.com/esiddiqui/goidc-app/config"
	"github.com/esiddiqui/goidc-app/types"
	"github.com/stretchr/testify/require"
)

func TestNewSessionId(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSessionId()
		require.Len(t, id, 32)
		require.False(t, seen[id], "session ids must be unique")
		seen[id] = true
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	ctx := context.Background()
	mgr, err := NewSessionManager(&config.SessionConfig{Ttl: "1h"})
	require.NoError(t, err)

	sess, err := mgr.Create(ctx, "tok-1", types.User{"id": "u1"})
	require.NoError(t, err)
	require.Len(t, sess.Id, 32)
	require.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	got, err := mgr.Get(ctx, sess.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "tok-1", got.AccessToken)

	got, err = mgr.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sess.Id, got.Id)
}

func TestManagerCreateWithTtlOverride(t *testing.T) {
	ctx := context.Background()
	mgr, err := NewSessionManager(&config.SessionConfig{Ttl: "1h"})
	require.NoError(t, err)

	sess, err := mgr.CreateWithTtl(ctx, "tok-1", types.User{"id": "u1"}, 2*time.Minute)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(2*time.Minute), sess.ExpiresAt, 5*time.Second)
}

func TestManagerLogout(t *testing.T) {
	ctx := context.Background()
	mgr, err := NewSessionManager(&config.SessionConfig{})
	require.NoError(t, err)

	sess, err := mgr.Create(ctx, "tok-1", types.User{"id": "u1"})
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx, "tok-1"))

	got, err := mgr.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = mgr.Get(ctx, sess.Id)
	require.NoError(t, err)
	require.Nil(t, got)

	// logging out a token nobody holds is not an error
	require.NoError(t, mgr.Logout(ctx, "tok-unknown"))
}

func TestManagerSweeperRemovesExpiredWithoutReads(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore()
	mgr, err := NewSessionManager(
		&config.SessionConfig{SweepInterval: "10ms"},
		WithStore(store),
	)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, testSession("dead", "tok-dead", time.Now().Add(-time.Minute))))
	require.Equal(t, 1, store.Len())

	mgr.StartSweeper()
	defer mgr.Stop()

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond, "sweeper should remove the expired session without any client request")
}

func TestManagerRejectsUnknownStoreType(t *testing.T) {
	_, err := NewSessionManager(&config.SessionConfig{
		Store: config.StoreConfig{Type: "cassandra"},
	})
	require.Error(t, err)
}
