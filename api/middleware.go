package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// requireBearer guards a handler behind the Authorization header: no
// bearer token, no entry. When requireSession is enabled in config the
// token must also resolve to a live session; otherwise presence is
// accepted as-is, which is a demonstration guard, not a security
// boundary.
func (s *Server) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := bearerToken(r)
		if token == "" {
			unauthorized(w)
			return
		}

		if s.cfg.Server.RequireSession {
			sess, err := s.sessions.GetByToken(r.Context(), token)
			if err != nil {
				log.WithError(err).Error("error resolving session for bearer token")
				unauthorized(w)
				return
			}
			if sess == nil {
				unauthorized(w)
				return
			}
		}

		next(w, r)
	}
}
