package config

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig carries the environment variable overrides. Every field is
// optional; anything unset leaves the yaml/default value in place.
type EnvConfig struct {
	ClientId     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	ProviderUrl  string `envconfig:"PROVIDER_URL"`
	CallbackUri  string `envconfig:"CALLBACK_URI"`
	FrontendUrl  string `envconfig:"FRONTEND_URL"`
	RedisAddr    string `envconfig:"REDIS_ADDR"`
}

// loadFromEnv reads the GOIDC_* environment variables
func loadFromEnv() (EnvConfig, error) {
	var env EnvConfig
	err := envconfig.Process("goidc", &env)
	return env, err
}
