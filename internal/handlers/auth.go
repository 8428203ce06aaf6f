package handlers

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/lumina-web/lumina-site/internal/auth"
	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/interfaces"
	"github.com/lumina-web/lumina-site/internal/models"
	"github.com/lumina-web/lumina-site/internal/session"
)

const stateCookieName = "lumina_oauth_state"

// AuthHandler drives the Google sign-in flow: the outbound redirect and the
// provider callback that binds the verified email to a session.
type AuthHandler struct {
	logger        *common.Logger
	authenticator auth.Authenticator
	identities    interfaces.IdentityStore
	sessions      *session.Store
}

// NewAuthHandler creates a new auth handler. identities may be nil when
// identity persistence is not configured; the sign-in still works, the
// record simply isn't kept.
func NewAuthHandler(logger *common.Logger, authenticator auth.Authenticator, identities interfaces.IdentityStore, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		authenticator: authenticator,
		identities:    identities,
		sessions:      sessions,
	}
}

// HandleGoogleLogin handles GET /auth/google: 302 to Google's authorization
// URL with a fresh state value pinned in a short-lived cookie.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.authenticator == nil {
		h.redirectWithError(w, r, "google sign-in is not configured")
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.authenticator.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback handles GET /auth/google/callback. Every failure branch is
// terminal for the attempt: redirect to the form page with an error
// indicator, bind nothing. On success the verified email is bound to a new
// session and the identity record is looked up or created by provider id.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if msg := q.Get("error"); msg != "" {
		h.logger.Warn().Str("error", msg).Msg("google sign-in rejected by provider")
		h.redirectWithError(w, r, msg)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.redirectWithError(w, r, "missing authorization code")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
		h.redirectWithError(w, r, "invalid state")
		return
	}
	h.clearStateCookie(w)

	profile, err := h.authenticator.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("google code exchange failed")
		h.redirectWithError(w, r, "authentication failed")
		return
	}

	if !profile.EmailVerified {
		h.redirectWithError(w, r, "email not verified")
		return
	}

	if h.identities != nil {
		_, err := h.identities.FindOrCreate(r.Context(), models.Identity{
			ProviderID:  profile.Subject,
			DisplayName: profile.Name,
			Email:       profile.Email,
		})
		if err != nil {
			h.logger.Error().Str("error", err.Error()).Msg("failed to persist identity")
			h.redirectWithError(w, r, "authentication failed")
			return
		}
	}

	h.sessions.Issue(w, profile.Email)

	h.logger.Info().Str("email", profile.Email).Msg("google sign-in complete")
	http.Redirect(w, r, "/getStarted", http.StatusFound)
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/getStarted?error="+url.QueryEscape(msg), http.StatusFound)
}

func (h *AuthHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
