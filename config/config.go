package config

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	defaultServerPort      int32  = 3000
	defaultProviderUrl     string = "https://id.example.com"
	defaultCallbackUri     string = "http://localhost:3000/auth/callback"
	defaultFrontendUrl     string = "http://localhost:5173"
	defaultScopes                 = []string{"openid", "profile", "email"}
	defaultSessionTtl             = 1 * time.Hour
	defaultSweepInterval          = 60 * time.Second
	defaultProviderTimeout        = 10 * time.Second
)

// LoadConfig builds the goidc-app configuration from the yaml file at the
// supplied path, fills in documented defaults for anything left unset &
// finally applies environment variable overrides. A missing or unreadable
// config file is not fatal; the app starts on defaults + environment.
func LoadConfig(path string) *GoidcConfig {

	log.WithField("source", path).Info("loading config")
	cfg, err := loadFromFile(path)
	if err != nil {
		log.WithField("source", path).Warn("config file not loaded, continuing with defaults")
		cfg = &GoidcConfig{}
	}

	setDefaults(cfg)

	log.WithField("source", "environment").Debug("loading config")
	env, err := loadFromEnv()
	if err != nil {
		log.WithError(err).Warn("error reading environment overrides")
	} else {
		overrideFromEnv(env, cfg)
	}
	return cfg
}

// set defaults
func setDefaults(cfg *GoidcConfig) {

	if cfg.Server.Port == 0 {
		log.WithField("server.port", defaultServerPort).Debug("setting value")
		cfg.Server.Port = defaultServerPort
	}

	if cfg.Server.Session.Store.Type == "" {
		log.WithField("server.session.store.type", StoreTypeMemory).Debug("setting value")
		cfg.Server.Session.Store.Type = StoreTypeMemory
	}

	if cfg.Oidc.ProviderUrl == "" {
		log.WithField("oidc.providerUrl", defaultProviderUrl).Debug("setting value")
		cfg.Oidc.ProviderUrl = defaultProviderUrl
	}

	if cfg.Oidc.CallbackUri == "" {
		log.WithField("oidc.callbackUri", defaultCallbackUri).Debug("setting value")
		cfg.Oidc.CallbackUri = defaultCallbackUri
	}

	if len(cfg.Oidc.Scopes) == 0 {
		log.WithField("oidc.scopes", defaultScopes).Debug("setting value")
		cfg.Oidc.Scopes = defaultScopes
	}

	if cfg.Frontend.Url == "" {
		log.WithField("frontend.url", defaultFrontendUrl).Debug("setting value")
		cfg.Frontend.Url = defaultFrontendUrl
	}
}

// loadFromFile reads & parses the goidc config from the supplied path
func loadFromFile(path string) (*GoidcConfig, error) {

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := GoidcConfig{}
	err = yaml.Unmarshal(bytes, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overrideFromEnv overrides GoidcConfig from env
// env values if set will always override the values from yaml config
func overrideFromEnv(env EnvConfig, cfg *GoidcConfig) {

	if env.ClientId != "" {
		log.Debug("the value of client_id is being overridden from env")
		cfg.Oidc.ClientId = env.ClientId
	}

	if env.ClientSecret != "" {
		log.Debug("the value of client_secret is being overridden from env")
		cfg.Oidc.ClientSecret = env.ClientSecret
	}

	if env.ProviderUrl != "" {
		log.Debug("the value of the provider url is being overridden from env")
		cfg.Oidc.ProviderUrl = env.ProviderUrl
	}

	if env.CallbackUri != "" {
		log.Debug("the value of the callback uri is being overridden from env")
		cfg.Oidc.CallbackUri = env.CallbackUri
	}

	if env.FrontendUrl != "" {
		log.Debug("the value of the frontend url is being overridden from env")
		cfg.Frontend.Url = env.FrontendUrl
	}

	if env.RedisAddr != "" {
		log.Debug("the session store is being pointed at redis from env")
		cfg.Server.Session.Store.Type = StoreTypeRedis
		cfg.Server.Session.Store.Host = env.RedisAddr
	}
}
