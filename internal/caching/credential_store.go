package caching

import (
	"context"
	"time"

	"wmsconsole/internal/models"
)

// Stored field names of a session record
const (
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldUsername     = "username"
	FieldUserRole     = "user_role"
)

// CredentialStore persists one Session per browser session id.
// Get returns nil, nil when nothing is stored. Writes are last-writer-wins.
type CredentialStore interface {
	Set(ctx context.Context, sid string, session *models.Session) error
	Get(ctx context.Context, sid string) (*models.Session, error)
	Clear(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}

// RateLimiter counts attempts per key inside a fixed window
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}

func sessionFields(s *models.Session) map[string]string {
	return map[string]string{
		FieldAccessToken:  s.AccessToken,
		FieldRefreshToken: s.RefreshToken,
		FieldUsername:     s.Username,
		FieldUserRole:     string(s.Role),
	}
}

func sessionFromFields(fields map[string]string) *models.Session {
	return &models.Session{
		AccessToken:  fields[FieldAccessToken],
		RefreshToken: fields[FieldRefreshToken],
		Username:     fields[FieldUsername],
		Role:         models.Role(fields[FieldUserRole]),
	}
}
