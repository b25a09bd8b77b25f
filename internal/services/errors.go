package services

import (
	"context"
	"errors"
	"fmt"

	"wmsconsole/internal/wmsapi"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUserAborted means a destructive action was not confirmed; no call was made
	ErrUserAborted = errors.New("action not confirmed")
	// ErrNoFile is returned by imports submitted without a file
	ErrNoFile = errors.New("no file selected")
	// ErrTooManyAttempts is returned by Login while the caller is throttled
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)

// ProductNotFoundError is returned when a scanned SKU matches no listed product
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("No product found with SKU: %s", e.SKU)
}

// expireOnAuthFailure clears the session when err says the API no longer
// accepts its token. err is returned unchanged either way.
func expireOnAuthFailure(ctx context.Context, sess SessionState, logger logrus.FieldLogger, err error) error {
	if err == nil || !errors.Is(err, wmsapi.ErrAuthExpired) {
		return err
	}
	// the request context may be gone; the clear must still happen
	if clearErr := sess.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		logger.WithError(clearErr).Error("failed to clear expired session")
	}
	return err
}

// IsCancelled reports whether err only means the caller went away
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
