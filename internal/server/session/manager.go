package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/logging"
)

type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	logger     logging.Logger
}

func NewManager(secret string, ttl time.Duration, cookieName string, secure bool, logger logging.Logger) *Manager {
	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
	}
}

// Load reads the identity from the request cookie. A missing, expired or
// tampered cookie yields an empty identity.
func (m *Manager) Load(r *http.Request) *Identity {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return NewIdentity("")
	}

	value, err := ParseToken(c.Value, m.secret)
	if err != nil {
		if !errors.Is(err, common.ErrTokenExpired) {
			m.logger.Warn(r.Context(), "rejected session cookie", "error", err)
		}
		return NewIdentity("")
	}
	return NewIdentity(value)
}

// Save writes id back to the response when it changed: a fresh token after
// Set, an expiring cookie after Clear.
func (m *Manager) Save(w http.ResponseWriter, id *Identity) error {
	if !id.Changed() {
		return nil
	}

	value, ok := id.Get()
	if !ok {
		m.clearCookie(w)
		return nil
	}

	token, err := GenerateToken(value, m.secret, m.ttl)
	if err != nil {
		return err
	}
	m.setCookie(w, token)
	return nil
}

// Middleware loads the identity into the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentity(r.Context(), m.Load(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		Expires:  time.Now().Add(m.ttl),
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}
