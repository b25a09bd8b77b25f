package wmsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"wmsconsole/internal/models"
)

// AuthResource wraps the token endpoint
type AuthResource struct {
	c *Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair. Any non-2xx answer, or a 2xx
// answer without an access token, is ErrLoginFailed; a transport failure is
// returned as *TransportError.
func (a *AuthResource) Login(ctx context.Context, username, password string) (*models.Session, error) {
	const path = "/api/token/"
	body, err := jsonBody(http.MethodPost, path, loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	var tokens models.TokenResponse
	err = a.c.do(ctx, request{method: http.MethodPost, path: path, body: body, contentType: "application/json"}, &tokens)
	if err != nil {
		var apiErr *APIError
		var valErr *ValidationError
		switch {
		case errors.As(err, &valErr):
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, valErr.Message)
		case errors.As(err, &apiErr):
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, apiErr.Message)
		}
		return nil, err
	}
	if tokens.Access == "" {
		return nil, ErrLoginFailed
	}

	return &models.Session{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		Username:     tokens.User.Username,
		Role:         tokens.User.Role,
	}, nil
}
