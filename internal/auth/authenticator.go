package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/estote-backend/internal/metrics"
)

// Authenticator verifies a username/password pair against the stored
// principal.
type Authenticator struct {
	details *DetailService
	metrics *metrics.Metrics
}

func NewAuthenticator(details *DetailService, m *metrics.Metrics) *Authenticator {
	return &Authenticator{details: details, metrics: m}
}

// Authenticate reports an unknown user as ErrBadCredentials so callers cannot
// probe for existing usernames.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*UserDetail, error) {
	detail, err := a.details.LoadByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUsernameNotFound) {
			a.metrics.AuthFailure("bad_credentials")
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(detail.Password()), []byte(password)); err != nil {
		a.metrics.AuthFailure("bad_credentials")
		return nil, ErrBadCredentials
	}
	if err := CheckStatus(detail); err != nil {
		a.metrics.AuthFailure(reason(err))
		return nil, err
	}
	return detail, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrDisabled):
		return "disabled"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrAccountExpired):
		return "account_expired"
	case errors.Is(err, ErrCredentialsExpired):
		return "credentials_expired"
	default:
		return "other"
	}
}
