package services

import (
	"context"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/models"

	"github.com/sirupsen/logrus"
)

// AuthService logs users in and out of the console.
//
// The refresh token returned at login is stored with the session but never
// exchanged: once the API rejects the access token the session is cleared
// and the user logs in again.
type AuthService interface {
	Login(ctx context.Context, sess SessionState, clientKey, username, password string) (*models.Session, error)
	Logout(ctx context.Context, sess SessionState) error
}

type authService struct {
	api     AuthAPI
	limiter caching.RateLimiter
	limit   int
	window  time.Duration
	logger  logrus.FieldLogger
}

// NewAuthService builds the service; a nil limiter disables login throttling
func NewAuthService(api AuthAPI, limiter caching.RateLimiter, limit int, window time.Duration, logger logrus.FieldLogger) AuthService {
	return &authService{api: api, limiter: limiter, limit: limit, window: window, logger: logger.WithField("component", "auth")}
}

// Login stores the issued session in sess. clientKey identifies the caller
// for throttling (usually the remote IP).
func (s *authService) Login(ctx context.Context, sess SessionState, clientKey, username, password string) (*models.Session, error) {
	if s.limiter != nil && s.limit > 0 {
		limited, err := s.limiter.IsRateLimited(ctx, "login:"+clientKey, s.limit, s.window)
		if err != nil {
			s.logger.WithError(err).Warn("login rate limiter unavailable")
		} else if limited {
			return nil, ErrTooManyAttempts
		}
	}

	issued, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.logger.WithError(err).WithField("user", username).Info("login failed")
		return nil, err
	}
	if err := sess.Set(ctx, issued); err != nil {
		return nil, err
	}
	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, "login:"+clientKey)
	}
	s.logger.WithFields(logrus.Fields{"user": issued.Username, "role": issued.Role}).Info("user logged in")
	return issued, nil
}

func (s *authService) Logout(ctx context.Context, sess SessionState) error {
	user := sess.Username()
	if err := sess.Clear(ctx); err != nil {
		return err
	}
	s.logger.WithField("user", user).Info("user logged out")
	return nil
}
