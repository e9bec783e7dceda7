package config

import "time"

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

type StoreConfig struct {
	Type StoreType `yaml:"type"`
	Host string    `yaml:"host"`
	Port int32     `yaml:"port"`
}

type SessionConfig struct {
	Store         StoreConfig `yaml:"store"`
	Ttl           string      `yaml:"ttl"`
	SweepInterval string      `yaml:"sweepInterval"`
}

// TtlDuration returns the configured session time-to-live, or the
// default when the value is absent or unparseable.
func (c SessionConfig) TtlDuration() time.Duration {
	if d, err := time.ParseDuration(c.Ttl); err == nil && d > 0 {
		return d
	}
	return defaultSessionTtl
}

// SweepIntervalDuration returns the configured expiry sweep interval, or
// the default when the value is absent or unparseable.
func (c SessionConfig) SweepIntervalDuration() time.Duration {
	if d, err := time.ParseDuration(c.SweepInterval); err == nil && d > 0 {
		return d
	}
	return defaultSweepInterval
}

type ServerConfig struct {
	Port int32 `yaml:"port"`
	// RequireSession hardens the bearer guard on protected data paths:
	// the token must resolve to a live session, not merely be present.
	RequireSession bool          `yaml:"requireSession"`
	Session        SessionConfig `yaml:"session"`
}

type OidcConfig struct {
	ClientId        string   `yaml:"clientId"`
	ClientSecret    string   `yaml:"clientSecret"`
	ProviderUrl     string   `yaml:"providerUrl"`     // auth server base url; endpoints derived as /auth /token /me
	MetadataUrl     string   `yaml:"metadataUrl"`     // .well-known metadata url; takes precedence over providerUrl
	CallbackUri     string   `yaml:"callbackUri"`     // redirect_uri registered with the auth server
	Scopes          []string `yaml:"scopes"`
	VerifyIdToken   bool     `yaml:"verifyIdToken"`   // verify id_token signature against the provider jwks
	ProviderTimeout string   `yaml:"providerTimeout"` // bound on each auth server round-trip
}

// ProviderTimeoutDuration returns the bound placed on each outbound call
// to the auth server.
func (c OidcConfig) ProviderTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.ProviderTimeout); err == nil && d > 0 {
		return d
	}
	return defaultProviderTimeout
}

type FrontendConfig struct {
	Url string `yaml:"url"`
}

type GoidcConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Oidc     OidcConfig     `yaml:"oidc"`
	Frontend FrontendConfig `yaml:"frontend"`
}
