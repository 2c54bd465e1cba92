package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/estote-backend/internal/user"
)

var (
	ErrUsernameNotFound   = errors.New("User not found")
	ErrBadCredentials     = errors.New("bad credentials")
	ErrDisabled           = errors.New("account is disabled")
	ErrLocked             = errors.New("account is locked")
	ErrAccountExpired     = errors.New("account has expired")
	ErrCredentialsExpired = errors.New("credentials have expired")
)

// UserStore is the lookup DetailService depends on.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (user.User, error)
}

// DetailService loads principals by username.
type DetailService struct {
	users UserStore
}

func NewDetailService(users UserStore) *DetailService {
	return &DetailService{users: users}
}

// LoadByUsername returns ErrUsernameNotFound when the store has no such user.
// Other store failures are returned wrapped.
func (s *DetailService) LoadByUsername(ctx context.Context, username string) (*UserDetail, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUsernameNotFound
		}
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}
	return NewUserDetail(u), nil
}

// CheckStatus returns the first status flag that forbids p from signing in.
func CheckStatus(p Principal) error {
	switch {
	case !p.IsEnabled():
		return ErrDisabled
	case !p.IsAccountNonLocked():
		return ErrLocked
	case !p.IsAccountNonExpired():
		return ErrAccountExpired
	case !p.IsCredentialsNonExpired():
		return ErrCredentialsExpired
	}
	return nil
}
