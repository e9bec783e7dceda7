package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esiddiqui/goidc-app/config"
	"github.com/stretchr/testify/require"
)

func TestAuthCodeURL(t *testing.T) {
	client, err := NewClient(&config.OidcConfig{
		ClientId:    "acme",
		ProviderUrl: "https://id.acme.test",
		CallbackUri: "https://app/cb",
		Scopes:      []string{"openid", "profile", "email"},
	})
	require.NoError(t, err)

	authUrl := client.AuthCodeURL()
	require.Contains(t, authUrl,
		"client_id=acme&redirect_uri=https%3A%2F%2Fapp%2Fcb&response_type=code&scope=openid%20profile%20email")
	require.Contains(t, authUrl, "https://id.acme.test/auth?")
}

func TestNewFromIssuerUrl(t *testing.T) {
	metadata := NewFromIssuerUrl("https://id.acme.test")
	require.Equal(t, "https://id.acme.test/auth", metadata.AuthorizationEndpoint)
	require.Equal(t, "https://id.acme.test/token", metadata.TokenEndpoint)
	require.Equal(t, "https://id.acme.test/me", metadata.UserinfoEndpoint)
}

func TestNewClientFromMetadataUrl(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"issuer":                 "https://id.acme.test",
				"authorization_endpoint": "https://id.acme.test/v1/authorize",
				"token_endpoint":         "https://id.acme.test/v1/token",
				"userinfo_endpoint":      "https://id.acme.test/v1/userinfo",
				"jwks_uri":               "https://id.acme.test/v1/keys",
			})
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{
		MetadataUrl: provider.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	require.Equal(t, "https://id.acme.test/v1/token", client.Metadata().TokenEndpoint)
	require.Equal(t, "https://id.acme.test/v1/keys", client.Metadata().JwksUri)
}

func TestExchangeCode(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/token", r.URL.Path)
			// http basic client auth from client id/secret
			username, password, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "acme", username)
			require.Equal(t, "s3cret", password)
			// form-encoded grant
			require.NoError(t, r.ParseForm())
			require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			require.Equal(t, "abc123", r.PostForm.Get("code"))
			require.Equal(t, "https://app/cb", r.PostForm.Get("redirect_uri"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{
		ClientId:     "acme",
		ClientSecret: "s3cret",
		ProviderUrl:  provider.URL,
		CallbackUri:  "https://app/cb",
	})
	require.NoError(t, err)

	token, err := client.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	require.False(t, token.Failed())
	require.Equal(t, "tok-1", token.AccessToken)
	require.NotNil(t, token.ExpiresIn)
	require.Equal(t, 3600, *token.ExpiresIn)
}

func TestExchangeCodeProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":             "invalid_grant",
				"error_description": "The authorization code is invalid or has expired.",
			})
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{ProviderUrl: provider.URL})
	require.NoError(t, err)

	token, err := client.ExchangeCode(context.Background(), "bad-code")
	require.NoError(t, err)
	require.True(t, token.Failed())
	require.Equal(t, "invalid_grant", token.Error)
	require.Equal(t, "The authorization code is invalid or has expired.", token.ErrorDescription)
}

func TestExchangeCodeTimeout(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{
		ProviderUrl:     provider.URL,
		ProviderTimeout: "20ms",
	})
	require.NoError(t, err)

	_, err = client.ExchangeCode(context.Background(), "abc123")
	require.Error(t, err)
}

func TestFetchUserInfo(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/me", r.URL.Path)
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":    "u1",
				"name":  "Ada",
				"email": "ada@example.com",
			})
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{ProviderUrl: provider.URL})
	require.NoError(t, err)

	user, err := client.FetchUserInfo(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "u1", user.Id())
	require.Equal(t, "Ada", user["name"])
}

func TestFetchUserInfoUnauthorized(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	))
	defer provider.Close()

	client, err := NewClient(&config.OidcConfig{ProviderUrl: provider.URL})
	require.NoError(t, err)

	_, err = client.FetchUserInfo(context.Background(), "tok-bogus")
	require.Error(t, err)
}
