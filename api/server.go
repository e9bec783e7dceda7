package api

import (
	"fmt"
	"net/http"

	"github.com/esiddiqui/goidc-app/config"
	"github.com/esiddiqui/goidc-app/oidc"
	"github.com/esiddiqui/goidc-app/session"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Server is the api surface backing the single-page frontend: the oidc
// login flow, session resolution & the protected data endpoints.
type Server struct {
	cfg      *config.GoidcConfig
	oidc     *oidc.Client
	sessions *session.Manager
}

// NewServer wires the api handlers to the supplied oidc client &
// session manager
func NewServer(cfg *config.GoidcConfig, oidcClient *oidc.Client, sessions *session.Manager) *Server {
	return &Server{
		cfg:      cfg,
		oidc:     oidcClient,
		sessions: sessions,
	}
}

// StartHttpServer sets up all required pieces for goidc-app & blocks
// serving http; any critical failure during setup is returned
func StartHttpServer(cfg *config.GoidcConfig) error {

	if cfg == nil {
		return errors.Errorf("invalid or nil config supplied to initialize goidc-app server")
	}

	// initialize session manager & its background expiry sweep
	sessions, err := session.NewSessionManager(&cfg.Server.Session)
	if err != nil {
		return err
	}
	sessions.StartSweeper()
	defer sessions.Stop()

	// configure the oidc provider client
	oidcClient, err := oidc.NewClient(&cfg.Oidc)
	if err != nil {
		return err
	}

	server := NewServer(cfg, oidcClient, sessions)

	log.WithField("port", cfg.Server.Port).Info("starting goidc-app server")
	return http.ListenAndServe(fmt.Sprintf(":%v", cfg.Server.Port), server.Handler())
}

// Handler returns the fully-routed http handler, wrapped with request
// logging & a cors policy open to the frontend origin.
func (s *Server) Handler() http.Handler {

	router := mux.NewRouter()

	// oidc auth flow
	router.HandleFunc("/auth/login", s.loginHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/callback", s.authCodeCallbackHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/session/{id}", s.sessionHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/me", s.requireBearer(s.meHandler)).Methods(http.MethodGet)
	router.HandleFunc("/auth/logout", s.logoutHandler).Methods(http.MethodPost)

	// protected data
	router.HandleFunc("/data/user-data", s.requireBearer(s.userDataHandler)).Methods(http.MethodGet)

	// service plumbing
	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{s.cfg.Frontend.Url}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	return handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), cors(router))
}
