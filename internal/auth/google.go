// Package auth implements the Google authorization-code flow used by the
// "Sign in with Google" convenience login.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Profile is the subset of the Google userinfo response the site needs.
type Profile struct {
	Subject       string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Authenticator abstracts the provider round trips so handlers can be tested
// without Google.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// GoogleAuthenticator exchanges authorization codes against Google and loads
// the user profile with the resulting token.
type GoogleAuthenticator struct {
	cfg         *oauth2.Config
	userinfoURL string
}

// NewGoogleAuthenticator creates an authenticator for the given OAuth client.
func NewGoogleAuthenticator(clientID, clientSecret, callbackURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"profile", "email"},
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthCodeURL builds the Google authorization URL for the given state.
func (a *GoogleAuthenticator) AuthCodeURL(state string) string {
	return a.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token and fetches the user
// profile. The returned profile always carries a subject and an email.
func (a *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	client := a.cfg.Client(ctx, token)
	resp, err := client.Get(a.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}

	if profile.Subject == "" || profile.Email == "" {
		return nil, errors.New("google profile missing subject or email")
	}

	return &profile, nil
}

// Compile-time interface compliance check.
var _ Authenticator = (*GoogleAuthenticator)(nil)
