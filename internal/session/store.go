// Package session provides the in-memory session store that binds an
// authenticated email to a browser cookie.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumina-web/lumina-site/internal/models"
)

// CookieName is the session cookie set on successful sign-in.
const CookieName = "lumina_session"

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 10 * time.Minute

// Store keeps sessions in memory, keyed by a random id. The cookie value is
// the id plus an HMAC-SHA256 signature so a forged id is rejected before the
// map is consulted. Expired sessions read as anonymous and are removed lazily.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	secret   []byte
	ttl      time.Duration
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(secret string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*models.Session),
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Create registers a new session for the given email.
func (s *Store) Create(email string) *models.Session {
	now := time.Now()
	sess := &models.Session{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Issue creates a session for the email and sets the session cookie.
func (s *Store) Issue(w http.ResponseWriter, email string) *models.Session {
	sess := s.Create(email)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID + "." + s.sign(sess.ID),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return sess
}

// Lookup reads the session cookie from the request, verifies its signature
// and returns the live session. A missing cookie, bad signature, unknown id
// or expired session all read as anonymous.
func (s *Store) Lookup(r *http.Request) (*models.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	id, sig, found := strings.Cut(cookie.Value, ".")
	if !found || !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return nil, false
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if sess.IsExpired() {
		s.Delete(id)
		return nil, false
	}

	return sess, true
}

// Get retrieves a live session by id.
func (s *Store) Get(id string) (*models.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.IsExpired() {
		return nil, false
	}
	return sess, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
