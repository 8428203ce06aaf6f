package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/models"
	"github.com/lumina-web/lumina-site/internal/session"
)

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	sessions  *session.Store
}

// ContactPage carries the state of the contact form page: the pre-filled
// email, the OAuth error indicator, the thank-you banner, and on a failed
// validation the message plus the submitted values to re-fill the form.
type ContactPage struct {
	Email      string
	Error      string
	Sent       bool
	Validation string
	Form       models.Submission
}

// NewPageHandler creates a page handler that loads templates from the pages
// directory.
func NewPageHandler(logger *common.Logger, sessions *session.Store) *PageHandler {
	pagesDir := FindPagesDir()
	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))

	return &PageHandler{
		logger:    logger,
		templates: templates,
		sessions:  sessions,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		"../../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ServeHome handles GET /. The root pattern catches every unmatched path, so
// anything other than "/" is a 404.
func (h *PageHandler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if err := h.render(w, http.StatusOK, "index.html", nil); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to render homepage")
		http.Error(w, fmt.Sprintf("Error displaying homepage: %v", err), http.StatusNotFound)
	}
}

// ServeAbout handles GET /aboutUs.
func (h *PageHandler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if err := h.render(w, http.StatusOK, "aboutUs.html", nil); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to render about page")
		http.Error(w, fmt.Sprintf("Error displaying the About Us page: %v", err), http.StatusNotFound)
	}
}

// ServeContact handles GET /getStarted. The email field is pre-filled from
// the session when the visitor is signed in; ?error and ?sent carry OAuth
// failure and post-submission state.
func (h *PageHandler) ServeContact(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	page := ContactPage{
		Error: r.URL.Query().Get("error"),
		Sent:  r.URL.Query().Get("sent") == "1",
	}
	if sess, ok := h.sessions.Lookup(r); ok {
		page.Email = sess.Email
	}

	if err := h.render(w, http.StatusOK, "contactUs.html", page); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to render contact page")
		http.Error(w, fmt.Sprintf("Error displaying contactUs page: %v", err), http.StatusNotFound)
	}
}

// RenderContact re-renders the contact form with the given state. Used by the
// submission handler for validation failures.
func (h *PageHandler) RenderContact(w http.ResponseWriter, status int, page ContactPage) {
	if err := h.render(w, status, "contactUs.html", page); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to render contact page")
		http.Error(w, fmt.Sprintf("Error displaying contactUs page: %v", err), http.StatusNotFound)
	}
}

// render executes the template into a buffer first so a template failure can
// still produce a clean error status.
func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
