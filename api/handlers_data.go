package api

import (
	"net/http"
	"time"
)

// userDataHandler is the http handler for GET /data/user-data, the demo
// protected resource; the payload shape matches what the dashboard page
// renders.
func (s *Server) userDataHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":          1,
			"title":       "Welcome to Your Dashboard",
			"description": "This is your protected user data. You have successfully authenticated using OpenID Connect and can now access secure resources.",
			"features": []string{
				"Secure Authentication",
				"Protected API Routes",
				"User Profile Management",
				"Real-time Data Access",
				"Session Management",
			},
			"lastLogin": time.Now().Format(time.RFC3339),
		},
	})
}

// healthHandler is the http handler for GET /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// indexHandler is the http handler for GET /; it lists the available
// endpoints
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "goidc-app api",
		"endpoints": []string{
			"GET /health",
			"GET /auth/login",
			"GET /auth/callback",
			"GET /auth/session/{id}",
			"GET /auth/me",
			"POST /auth/logout",
			"GET /data/user-data",
		},
	})
}
