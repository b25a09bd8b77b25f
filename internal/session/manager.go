package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultCookieName is the browser cookie carrying the signed session id
const DefaultCookieName = "wms_session"

// Claims is the payload of the session cookie. It names a session, it never
// carries API credentials.
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager signs and issues session cookies
type Manager struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	now        func() time.Time
}

type ManagerOption func(*Manager)

func WithCookieName(name string) ManagerOption {
	return func(m *Manager) { m.cookieName = name }
}

// WithSecureCookie marks the cookie Secure (HTTPS deployments)
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) { m.secure = secure }
}

func NewManager(secret string, maxAge time.Duration, opts ...ManagerOption) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	m := &Manager{
		secret:     []byte(secret),
		cookieName: DefaultCookieName,
		maxAge:     maxAge,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) CookieName() string { return m.cookieName }

// SigningKey is the HS256 key the cookie middleware verifies with
func (m *Manager) SigningKey() []byte { return m.secret }

// Sign returns the signed cookie value for sid
func (m *Manager) Sign(sid string) (string, error) {
	now := m.now()
	claims := &Claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			Subject:   "console-session",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Parse verifies a cookie value and returns its session id
func (m *Manager) Parse(value string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}
	if claims.SID == "" {
		return "", errors.New("session cookie has no sid")
	}
	return claims.SID, nil
}

// NewSID returns a fresh random session id
func NewSID() string { return uuid.NewString() }

// SetCookie signs sid and sets the session cookie on the response
func (m *Manager) SetCookie(c echo.Context, sid string) error {
	value, err := m.Sign(sid)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Renew re-signs the cookie of an active session once a quarter of its
// lifetime has passed, so it expires maxAge after the last activity like
// the stored credentials do
func (m *Manager) Renew(c echo.Context, claims *Claims) error {
	if claims.IssuedAt != nil && m.now().Sub(claims.IssuedAt.Time) < m.maxAge/4 {
		return nil
	}
	return m.SetCookie(c, claims.SID)
}

// ClearCookie expires the session cookie in the browser
func (m *Manager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
