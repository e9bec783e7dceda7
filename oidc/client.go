package oidc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/esiddiqui/goidc-app/config"
	"github.com/esiddiqui/goidc-app/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client talks to the OAuth2.0/oidc authorization server on the back
// channel. Every round-trip is bounded by the configured provider
// timeout; a hung provider fails the one request that needed it instead
// of holding the handler forever.
type Client struct {
	cfg      *config.OidcConfig
	metadata *Metadata
	http     *http.Client
}

// NewClient resolves the auth server endpoints & returns a Client.
// Endpoints come from the well-known metadata url when one is
// configured, else they are derived from the provider base url.
func NewClient(cfg *config.OidcConfig) (*Client, error) {

	var metadata *Metadata
	var err error
	if cfg.MetadataUrl != "" {
		log.WithField("url", cfg.MetadataUrl).Info("loading oauth2.0/oidc auth server metadata")
		metadata, err = NewFromMetadataUrl(cfg.MetadataUrl)
		if err != nil {
			return nil, err
		}
	} else {
		log.WithField("url", cfg.ProviderUrl).Info("deriving auth server endpoints from provider url")
		metadata = NewFromIssuerUrl(cfg.ProviderUrl)
	}

	return &Client{
		cfg:      cfg,
		metadata: metadata,
		http:     &http.Client{Timeout: cfg.ProviderTimeoutDuration()},
	}, nil
}

// Metadata returns the resolved auth server metadata
func (c *Client) Metadata() *Metadata {
	return c.metadata
}

// AuthCodeURL builds the authorization url the browser is sent to; a
// pure function of configuration with no side effects.
func (c *Client) AuthCodeURL() string {

	scopes := strings.Join(c.cfg.Scopes, " ")
	return fmt.Sprintf("%v?client_id=%v&redirect_uri=%v&response_type=code&scope=%v",
		c.metadata.AuthorizationEndpoint,
		c.cfg.ClientId,
		url.QueryEscape(c.cfg.CallbackUri),
		url.PathEscape(scopes))
}

// ExchangeCode exchanges the auth code for an access_token/id_token
// from the auth server using the back channel token endpoint; see RFC
// 6749 Section 4.1.3. The client authenticates with http basic auth
// built from its id & secret, & must echo the redirect_uri used on the
// authorization request.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*types.AccessTokenResponse, error) {

	// create auth header by base64(client_id:client_secret)
	basicAuthCredentials := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ClientId + ":" + c.cfg.ClientSecret))

	// set form data
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.cfg.CallbackUri)

	tokenUrl := c.metadata.TokenEndpoint
	log.WithField("url", tokenUrl).Debug("auth code exchange")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenUrl, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "error building token exchange request")
	}

	// set headers
	h := req.Header
	h.Add("Authorization", fmt.Sprintf("Basic %v", basicAuthCredentials))
	h.Add("Accept", "application/json")
	h.Add("User-Agent", "goidc-app")
	h.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error calling token endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading token endpoint response")
	}

	var token types.AccessTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, errors.Wrap(err, "error parsing token endpoint response")
	}
	return &token, nil
}

// FetchUserInfo gets the user profile from the auth server userinfo
// endpoint using the access token as a bearer credential
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (types.User, error) {

	userProfileUrl := c.metadata.UserinfoEndpoint
	log.WithField("url", userProfileUrl).Debug("fetching user profile")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userProfileUrl, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error building userinfo request")
	}

	h := req.Header
	h.Add("Authorization", fmt.Sprintf("Bearer %v", accessToken))
	h.Add("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error calling userinfo endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading userinfo response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("userinfo endpoint returned status %v", resp.StatusCode)
	}

	var user types.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(err, "error parsing userinfo response")
	}
	return user, nil
}
