package oidc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Metadata is the subset of the authorization server metadata this app
// cares about; see https://openid.net/specs/openid-connect-discovery-1_0.html
type Metadata struct {
	Issuer                 string   `json:"issuer"`
	AuthorizationEndpoint  string   `json:"authorization_endpoint"`
	TokenEndpoint          string   `json:"token_endpoint"`
	UserinfoEndpoint       string   `json:"userinfo_endpoint"`
	JwksUri                string   `json:"jwks_uri"`
	EndSessionEndpoint     string   `json:"end_session_endpoint"`
	ResponseTypesSupported []string `json:"response_types_supported"`
	GrantTypesSupported    []string `json:"grant_types_supported"`
	ScopesSupported        []string `json:"scopes_supported"`
	ClaimsSupported        []string `json:"claims_supported"`
}

// NewFromIssuerUrl infers the key authorization server endpoints from
// the provider base url using the /auth /token /me convention; used
// when no metadata url is configured.
func NewFromIssuerUrl(issuerUrl string) *Metadata {
	return &Metadata{
		Issuer:                issuerUrl,
		AuthorizationEndpoint: fmt.Sprintf("%v/auth", issuerUrl),
		TokenEndpoint:         fmt.Sprintf("%v/token", issuerUrl),
		UserinfoEndpoint:      fmt.Sprintf("%v/me", issuerUrl),
	}
}

// NewFromMetadataUrl fetches the authorization server metadata from the
// supplied metadata/well-known url
func NewFromMetadataUrl(url string) (*Metadata, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error building metadata request")
	}
	req.Header.Add("Accept", "application/json")
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching auth server metadata from %v", url)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading auth server metadata response")
	}

	metadata := &Metadata{}
	if err := json.Unmarshal(body, metadata); err != nil {
		return nil, errors.Wrap(err, "error parsing auth server metadata")
	}

	return metadata, nil
}
