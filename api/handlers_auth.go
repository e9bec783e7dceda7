package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/esiddiqui/goidc-app/types"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	QueryStringParamCode    string = "code"
	QueryStringParamError   string = "error"
	QueryStringParamDetails string = "details"
	QueryStringParamSession string = "session"
)

// error markers surfaced to the frontend via the redirect query string
const (
	errNoCode     string = "no_code"
	errAuthFailed string = "auth_failed"
)

// loginHandler is the http handler for GET /auth/login; it hands the
// frontend a fully-formed authorization url to redirect the browser to.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"authUrl": s.oidc.AuthCodeURL()})
}

// authCodeCallbackHandler is the http handler for the OAuth2.0
// authorization-code callback; see RFC 6749 Section 4.1.2 for details
// https://datatracker.ietf.org/doc/html/rfc6749#section-4.1.2
//
// The authorization server redirects the user here after consent. The
// auth code is exchanged on the back channel for an access token, the
// user profile is fetched with it & both are stored in a fresh session;
// the browser is then redirected to the frontend carrying only the
// opaque session id. The raw token or profile never travel in the
// redirect url, where browser history & referrer headers would leak
// them.
//
// Every failure along the way is terminal for this login attempt: the
// browser is redirected back to the frontend with an error marker & the
// user must restart the flow. Nothing is retried.
func (s *Server) authCodeCallbackHandler(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	authCode := r.URL.Query().Get(QueryStringParamCode)

	// make sure the code was provided
	if authCode == "" {
		log.Error("the auth code was not returned, or is not accessible")
		s.redirectToFrontend(w, r, url.Values{QueryStringParamError: {errNoCode}})
		return
	}

	// exchange auth code for token(s)
	tokenResponse, err := s.oidc.ExchangeCode(ctx, authCode)
	if err != nil || tokenResponse.Failed() {
		details := extractErrorDetail(err, tokenResponse)
		log.WithField("details", details).Error("error exchanging auth_code for access_token")
		s.redirectToAuthFailed(w, r, details)
		return
	}

	// optionally verify the id_token signature against the provider jwks
	if s.cfg.Oidc.VerifyIdToken {
		if err := s.oidc.VerifyIdToken(ctx, tokenResponse.IdToken); err != nil {
			log.WithError(err).Error("error verifying id_token")
			s.redirectToAuthFailed(w, r, err.Error())
			return
		}
	}

	// fetch the user profile with the fresh access token
	user, err := s.oidc.FetchUserInfo(ctx, tokenResponse.AccessToken)
	if err != nil {
		log.WithError(err).Error("error fetching user profile")
		s.redirectToAuthFailed(w, r, err.Error())
		return
	}

	// create a new session; align its expiry with the token's
	// expires_in when the auth server supplies one
	var ttl time.Duration
	if tokenResponse.ExpiresIn != nil {
		ttl = time.Duration(*tokenResponse.ExpiresIn) * time.Second
	}
	sess, err := s.sessions.CreateWithTtl(ctx, tokenResponse.AccessToken, user, ttl)
	if err != nil {
		log.WithError(err).Error("error creating a new session")
		s.redirectToAuthFailed(w, r, "error creating session")
		return
	}

	log.WithFields(log.Fields{
		"session_id": sess.Id,
		"user_id":    user.Id(),
	}).Info("authorization code exchanged, session created")

	s.redirectToFrontend(w, r, url.Values{QueryStringParamSession: {sess.Id}})
}

// sessionHandler is the http handler for GET /auth/session/{id}; the
// frontend calls it once after the callback redirect to trade the
// opaque session id for the token/user pair it persists locally.
//
// A missing session & an expired one are indistinguishable on purpose;
// the response never confirms whether an id ever existed.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {

	id := mux.Vars(r)["id"]
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("error resolving session")
		unauthorized(w)
		return
	}
	if sess == nil {
		unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": sess.AccessToken,
		"user":  sess.User,
	})
}

// meHandler is the http handler for GET /auth/me; it resolves the
// bearer token to the user held by its session.
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {

	sess, err := s.sessions.GetByToken(r.Context(), bearerToken(r))
	if err != nil {
		log.WithError(err).Error("error resolving session by token")
		unauthorized(w)
		return
	}
	if sess == nil {
		unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, sess.User)
}

// logoutHandler is the http handler for POST /auth/logout; it removes
// the session holding the bearer token. The response is the same
// generic acknowledgment whether or not a session was found, so session
// existence cannot be probed through response shape.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {

	if token := bearerToken(r); token != "" {
		if err := s.sessions.Logout(r.Context(), token); err != nil {
			log.WithError(err).Error("error removing session on logout")
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// extractErrorDetail pulls a human-readable detail string out of the
// provider's error response when there is one, falling back to the
// transport error message
func extractErrorDetail(err error, tokenResponse *types.AccessTokenResponse) string {
	if tokenResponse != nil && tokenResponse.ErrorDescription != "" {
		return tokenResponse.ErrorDescription
	}
	if tokenResponse != nil && tokenResponse.Error != "" {
		return tokenResponse.Error
	}
	if err != nil {
		return err.Error()
	}
	return "token exchange failed"
}

// redirectToAuthFailed redirects to the frontend with the auth_failed
// marker & a best-effort human-readable detail string
func (s *Server) redirectToAuthFailed(w http.ResponseWriter, r *http.Request, details string) {
	s.redirectToFrontend(w, r, url.Values{
		QueryStringParamError:   {errAuthFailed},
		QueryStringParamDetails: {details},
	})
}
