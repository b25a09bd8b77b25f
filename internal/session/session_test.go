package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SignParse(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	value, err := m.Sign("sid-1")
	require.NoError(t, err)

	sid, err := m.Parse(value)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
}

func TestManager_ParseRejectsForeignKey(t *testing.T) {
	m, _ := NewManager("secret", time.Hour)
	other, _ := NewManager("other", time.Hour)
	value, _ := other.Sign("sid-1")

	_, err := m.Parse(value)

	assert.Error(t, err)
}

func TestManager_ParseRejectsExpired(t *testing.T) {
	m, _ := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	value, _ := m.Sign("sid-1")
	m.now = time.Now

	_, err := m.Parse(value)

	assert.Error(t, err)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}

func TestManager_SetAndClearCookie(t *testing.T) {
	m, _ := NewManager("secret", time.Hour, WithSecureCookie(true))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

	sid := NewSID()
	require.NoError(t, m.SetCookie(c, sid))
	assert.NotEqual(t, sid, NewSID())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	parsed, err := m.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, sid, parsed)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/logout", nil), rec)
	m.ClearCookie(c)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestContext_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := caching.NewMemoryStore(0)

	sc, err := Load(ctx, store, "sid")
	require.NoError(t, err)
	assert.False(t, sc.LoggedIn())
	assert.Equal(t, models.RoleOperator, sc.Role())
	assert.Empty(t, sc.AccessToken())

	require.NoError(t, sc.Set(ctx, &models.Session{AccessToken: "A1", Username: "alice", Role: models.RoleManager}))
	assert.True(t, sc.LoggedIn())
	assert.Equal(t, models.RoleManager, sc.Role())
	assert.Equal(t, "alice", sc.Username())

	reloaded, err := Load(ctx, store, "sid")
	require.NoError(t, err)
	assert.Equal(t, "A1", reloaded.AccessToken())

	require.NoError(t, sc.Clear(ctx))
	assert.False(t, sc.LoggedIn())
	stored, _ := store.Get(ctx, "sid")
	assert.Nil(t, stored)
}

func TestContext_NoTokenMeansLoggedOut(t *testing.T) {
	ctx := context.Background()
	store := caching.NewMemoryStore(0)
	_ = store.Set(ctx, "sid", &models.Session{Username: "alice", Role: models.RoleAdmin})

	sc, err := Load(ctx, store, "sid")

	require.NoError(t, err)
	assert.False(t, sc.LoggedIn())
}

func TestAttachFromEcho(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, FromEcho(c))

	sc := New(caching.NewMemoryStore(0), "sid")
	Attach(c, sc)

	assert.Same(t, sc, FromEcho(c))
}

func TestManager_Renew(t *testing.T) {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	m, _ := NewManager("secret", time.Hour)
	m.now = func() time.Time { return clock }
	e := echo.New()
	value, err := m.Sign("sid-1")
	require.NoError(t, err)
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(value, claims, func(*jwt.Token) (interface{}, error) { return m.secret, nil }, jwt.WithTimeFunc(m.now))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Renew(e.NewContext(httptest.NewRequest(http.MethodGet, "/home", nil), rec), claims))
	assert.Empty(t, rec.Result().Cookies(), "fresh cookie is not re-signed")

	clock = clock.Add(20 * time.Minute)
	rec = httptest.NewRecorder()
	require.NoError(t, m.Renew(e.NewContext(httptest.NewRequest(http.MethodGet, "/home", nil), rec), claims))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	renewed := &Claims{}
	_, err = jwt.ParseWithClaims(cookies[0].Value, renewed, func(*jwt.Token) (interface{}, error) { return m.secret, nil }, jwt.WithTimeFunc(m.now))
	require.NoError(t, err)
	assert.Equal(t, "sid-1", renewed.SID)
	assert.Equal(t, clock.Add(time.Hour).Unix(), renewed.ExpiresAt.Unix())
}
