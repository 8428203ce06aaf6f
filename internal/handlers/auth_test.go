package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lumina-web/lumina-site/internal/auth"
	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/models"
	"github.com/lumina-web/lumina-site/internal/session"
)

// fakeAuthenticator stands in for Google during handler tests.
type fakeAuthenticator struct {
	profile *auth.Profile
	err     error
}

func (f *fakeAuthenticator) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeAuthenticator) Exchange(_ context.Context, _ string) (*auth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// fakeIdentityStore records find-or-create calls.
type fakeIdentityStore struct {
	records map[string]*models.Identity
	calls   int
	err     error
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{records: make(map[string]*models.Identity)}
}

func (f *fakeIdentityStore) FindOrCreate(_ context.Context, identity models.Identity) (*models.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if existing, ok := f.records[identity.ProviderID]; ok {
		return existing, nil
	}
	f.records[identity.ProviderID] = &identity
	return &identity, nil
}

func (f *fakeIdentityStore) Get(_ context.Context, providerID string) (*models.Identity, error) {
	if existing, ok := f.records[providerID]; ok {
		return existing, nil
	}
	return nil, errors.New("identity not found")
}

func verifiedProfile() *auth.Profile {
	return &auth.Profile{
		Subject:       "google-sub-1",
		Name:          "Pat Customer",
		Email:         "pat@example.com",
		EmailVerified: true,
	}
}

func newAuthFixture(authenticator auth.Authenticator, identities *fakeIdentityStore) (*AuthHandler, *session.Store) {
	logger := common.NewSilentLogger()
	sessions := session.NewStore("test-secret", 10*time.Minute)
	return NewAuthHandler(logger, authenticator, identities, sessions), sessions
}

// beginLogin runs the redirect leg and returns a callback request carrying
// the state cookie and matching state parameter.
func beginLogin(t *testing.T, handler *AuthHandler, query string) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.HandleGoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 to provider, got %d", rec.Code)
	}

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("expected state cookie to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+query, nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: state})
	return req
}

func TestGoogleLoginRedirectsToProvider(t *testing.T) {
	handler, _ := newAuthFixture(&fakeAuthenticator{}, nil)

	rec := httptest.NewRecorder()
	handler.HandleGoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "https://accounts.example.com/") {
		t.Errorf("expected redirect to provider, got %s", loc)
	}
}

func TestCallbackSuccessBindsSession(t *testing.T) {
	identities := newFakeIdentityStore()
	handler, sessions := newAuthFixture(&fakeAuthenticator{profile: verifiedProfile()}, identities)

	req := beginLogin(t, handler, "&code=auth-code")
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/getStarted" {
		t.Errorf("expected redirect to /getStarted, got %s", loc)
	}

	// The session cookie must resolve to the verified email.
	followUp := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			followUp.AddCookie(c)
		}
	}
	sess, ok := sessions.Lookup(followUp)
	if !ok {
		t.Fatal("expected session to be bound after callback")
	}
	if sess.Email != "pat@example.com" {
		t.Errorf("expected session email pat@example.com, got %s", sess.Email)
	}

	if identities.calls != 1 {
		t.Errorf("expected one find-or-create call, got %d", identities.calls)
	}
}

func TestCallbackProviderError(t *testing.T) {
	handler, sessions := newAuthFixture(&fakeAuthenticator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/getStarted?error=") || loc == "/getStarted?error=" {
		t.Errorf("expected non-empty error indicator, got %s", loc)
	}

	followUp := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	for _, c := range rec.Result().Cookies() {
		followUp.AddCookie(c)
	}
	if _, ok := sessions.Lookup(followUp); ok {
		t.Error("expected no session to be bound on provider error")
	}
}

func TestCallbackMissingCode(t *testing.T) {
	handler, _ := newAuthFixture(&fakeAuthenticator{profile: verifiedProfile()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect, got %s", loc)
	}
}

func TestCallbackStateMismatch(t *testing.T) {
	handler, _ := newAuthFixture(&fakeAuthenticator{profile: verifiedProfile()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=auth-code&state=wrong", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "right"})
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect on state mismatch, got %s", loc)
	}
}

func TestCallbackExchangeFailure(t *testing.T) {
	handler, sessions := newAuthFixture(&fakeAuthenticator{err: errors.New("exchange failed")}, nil)

	req := beginLogin(t, handler, "&code=auth-code")
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect, got %s", loc)
	}

	followUp := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	for _, c := range rec.Result().Cookies() {
		followUp.AddCookie(c)
	}
	if _, ok := sessions.Lookup(followUp); ok {
		t.Error("expected no session after failed exchange")
	}
}

func TestCallbackUnverifiedEmail(t *testing.T) {
	profile := verifiedProfile()
	profile.EmailVerified = false
	handler, _ := newAuthFixture(&fakeAuthenticator{profile: profile}, nil)

	req := beginLogin(t, handler, "&code=auth-code")
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect for unverified email, got %s", loc)
	}
}

func TestCallbackRepeatSignInReusesIdentity(t *testing.T) {
	identities := newFakeIdentityStore()
	handler, _ := newAuthFixture(&fakeAuthenticator{profile: verifiedProfile()}, identities)

	for i := 0; i < 3; i++ {
		req := beginLogin(t, handler, "&code=auth-code")
		rec := httptest.NewRecorder()
		handler.HandleCallback(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("attempt %d: expected 302, got %d", i, rec.Code)
		}
	}

	if len(identities.records) != 1 {
		t.Errorf("expected a single identity record, got %d", len(identities.records))
	}
}

func TestCallbackIdentityStoreFailure(t *testing.T) {
	identities := newFakeIdentityStore()
	identities.err = errors.New("storage down")
	handler, _ := newAuthFixture(&fakeAuthenticator{profile: verifiedProfile()}, identities)

	req := beginLogin(t, handler, "&code=auth-code")
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect on storage failure, got %s", loc)
	}
}
