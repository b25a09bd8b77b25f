package session

import (
	"context"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/models"

	"github.com/labstack/echo/v4"
)

// echoKey is where the per-request Context is kept on the echo.Context
const echoKey = "wms.session"

// Context is the session state of one request: one session id bound to one
// store. The snapshot loaded at request entry is what the request sees;
// Set and Clear write through to the store and update the snapshot.
type Context struct {
	store    caching.CredentialStore
	sid      string
	snapshot *models.Session
}

// New binds sid to store without loading anything
func New(store caching.CredentialStore, sid string) *Context {
	return &Context{store: store, sid: sid}
}

// Load binds sid to store and reads the stored session once
func Load(ctx context.Context, store caching.CredentialStore, sid string) (*Context, error) {
	sc := New(store, sid)
	s, err := store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	sc.snapshot = s
	return sc, nil
}

func (c *Context) SID() string { return c.sid }

// Get returns a copy of the session snapshot or nil when logged out
func (c *Context) Get() *models.Session {
	if c == nil || c.snapshot == nil {
		return nil
	}
	s := *c.snapshot
	return &s
}

func (c *Context) Set(ctx context.Context, s *models.Session) error {
	if err := c.store.Set(ctx, c.sid, s); err != nil {
		return err
	}
	copied := *s
	c.snapshot = &copied
	return nil
}

// Clear drops every stored field of the session
func (c *Context) Clear(ctx context.Context) error {
	c.snapshot = nil
	return c.store.Clear(ctx, c.sid)
}

func (c *Context) AccessToken() string {
	if c == nil || c.snapshot == nil {
		return ""
	}
	return c.snapshot.AccessToken
}

// Role falls back to the default role when none is stored
func (c *Context) Role() models.Role {
	if c == nil {
		return models.DefaultRole
	}
	return c.snapshot.EffectiveRole()
}

func (c *Context) Username() string {
	if c == nil || c.snapshot == nil {
		return ""
	}
	return c.snapshot.Username
}

func (c *Context) LoggedIn() bool {
	return c != nil && c.snapshot.LoggedIn()
}

// Attach stores sc on the echo context for the rest of the request
func Attach(e echo.Context, sc *Context) {
	e.Set(echoKey, sc)
}

// FromEcho returns the request's session Context or nil outside a guarded route
func FromEcho(e echo.Context) *Context {
	sc, _ := e.Get(echoKey).(*Context)
	return sc
}
