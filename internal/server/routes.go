package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.ServeHome)
	mux.HandleFunc("/aboutUs", s.app.PageHandler.ServeAbout)
	mux.HandleFunc("/getStarted", s.app.PageHandler.ServeContact)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Contact form submission
	mux.HandleFunc("/send-email", s.app.ContactHandler.ServeHTTP)

	// Google sign-in
	mux.HandleFunc("/auth/google", s.app.AuthHandler.HandleGoogleLogin)
	mux.HandleFunc("/auth/google/callback", s.app.AuthHandler.HandleCallback)

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
