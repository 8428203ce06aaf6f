package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func issueRequest(t *testing.T, store *Store, email string) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	store.Issue(rec, email)

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestIssueAndLookup(t *testing.T) {
	store := NewStore("test-secret", 10*time.Minute)
	req := issueRequest(t, store, "user@example.com")

	sess, ok := store.Lookup(req)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if sess.Email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %s", sess.Email)
	}
}

func TestLookupWithoutCookie(t *testing.T) {
	store := NewStore("test-secret", 10*time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	if _, ok := store.Lookup(req); ok {
		t.Error("expected no session for a request without a cookie")
	}
}

func TestLookupTamperedSignature(t *testing.T) {
	store := NewStore("test-secret", 10*time.Minute)
	req := issueRequest(t, store, "user@example.com")

	cookie, err := req.Cookie(CookieName)
	if err != nil {
		t.Fatalf("expected session cookie on request: %v", err)
	}

	id, _, _ := strings.Cut(cookie.Value, ".")
	tampered := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	tampered.AddCookie(&http.Cookie{Name: CookieName, Value: id + ".forged-signature"})

	if _, ok := store.Lookup(tampered); ok {
		t.Error("expected tampered cookie to be rejected")
	}
}

func TestLookupForgedID(t *testing.T) {
	store := NewStore("test-secret", 10*time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/getStarted", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "made-up-id.made-up-sig"})

	if _, ok := store.Lookup(req); ok {
		t.Error("expected forged cookie to be rejected")
	}
}

func TestExpiredSessionReadsAnonymous(t *testing.T) {
	store := NewStore("test-secret", 10*time.Minute)
	req := issueRequest(t, store, "user@example.com")

	cookie, _ := req.Cookie(CookieName)
	id, _, _ := strings.Cut(cookie.Value, ".")

	sess, ok := store.Get(id)
	if !ok {
		t.Fatal("expected session before expiry")
	}
	sess.ExpiresAt = time.Now().Add(-1 * time.Second)

	if _, ok := store.Lookup(req); ok {
		t.Error("expected expired session to read as anonymous")
	}
	if store.Len() != 0 {
		t.Errorf("expected expired session to be removed, store has %d", store.Len())
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	store := NewStore("test-secret", 0)
	sess := store.Create("user@example.com")

	ttl := sess.ExpiresAt.Sub(sess.CreatedAt)
	if ttl != DefaultTTL {
		t.Errorf("expected default ttl %v, got %v", DefaultTTL, ttl)
	}
}
