package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))

	require.Equal(t, int32(3000), cfg.Server.Port)
	require.Equal(t, StoreTypeMemory, cfg.Server.Session.Store.Type)
	require.Equal(t, "http://localhost:3000/auth/callback", cfg.Oidc.CallbackUri)
	require.Equal(t, "http://localhost:5173", cfg.Frontend.Url)
	require.Equal(t, []string{"openid", "profile", "email"}, cfg.Oidc.Scopes)
	require.Equal(t, 1*time.Hour, cfg.Server.Session.TtlDuration())
	require.Equal(t, 60*time.Second, cfg.Server.Session.SweepIntervalDuration())
	require.Equal(t, 10*time.Second, cfg.Oidc.ProviderTimeoutDuration())
}

func TestLoadConfigFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goidc.yml")
	yaml := `
server:
  port: 8080
  session:
    ttl: 30m
    sweepInterval: 15s
oidc:
  clientId: acme
  providerUrl: https://id.acme.test
  callbackUri: https://app/cb
frontend:
  url: https://app
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg := LoadConfig(path)
	require.Equal(t, int32(8080), cfg.Server.Port)
	require.Equal(t, "acme", cfg.Oidc.ClientId)
	require.Equal(t, "https://id.acme.test", cfg.Oidc.ProviderUrl)
	require.Equal(t, "https://app/cb", cfg.Oidc.CallbackUri)
	require.Equal(t, "https://app", cfg.Frontend.Url)
	require.Equal(t, 30*time.Minute, cfg.Server.Session.TtlDuration())
	require.Equal(t, 15*time.Second, cfg.Server.Session.SweepIntervalDuration())
	// defaults still fill anything the file left out
	require.Equal(t, []string{"openid", "profile", "email"}, cfg.Oidc.Scopes)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GOIDC_CLIENT_ID", "env-client")
	t.Setenv("GOIDC_CLIENT_SECRET", "env-secret")
	t.Setenv("GOIDC_FRONTEND_URL", "https://env-frontend")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.Equal(t, "env-client", cfg.Oidc.ClientId)
	require.Equal(t, "env-secret", cfg.Oidc.ClientSecret)
	require.Equal(t, "https://env-frontend", cfg.Frontend.Url)
}

func TestSessionConfigDurationFallbacks(t *testing.T) {
	c := SessionConfig{Ttl: "not-a-duration", SweepInterval: "-5s"}
	require.Equal(t, 1*time.Hour, c.TtlDuration())
	require.Equal(t, 60*time.Second, c.SweepIntervalDuration())
}
