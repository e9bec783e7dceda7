package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

// writeJSON marshals the supplied value onto the response with the
// given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("error writing json response")
	}
}

// unauthorized writes the one generic 401 body used everywhere; the
// response never distinguishes a missing token from an expired or
// unknown session.
func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
}

// bearerToken extracts the bearer credential from the Authorization
// header, or "" when absent
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// redirectToFrontend sends the browser back to the frontend with the
// supplied query parameters
func (s *Server) redirectToFrontend(w http.ResponseWriter, r *http.Request, params url.Values) {
	target := s.cfg.Frontend.Url + "?" + params.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}
