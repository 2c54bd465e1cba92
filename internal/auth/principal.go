package auth

import "github.com/wichananm65/estote-backend/internal/user"

// Principal is what the HTTP layer needs to know about an authenticated
// account: credentials, status flags and granted authorities.
type Principal interface {
	Username() string
	Password() string
	Authorities() []string
	IsEnabled() bool
	IsAccountNonLocked() bool
	IsAccountNonExpired() bool
	IsCredentialsNonExpired() bool
}

// UserDetail adapts a stored user to Principal.
type UserDetail struct {
	user user.User
}

var _ Principal = (*UserDetail)(nil)

func NewUserDetail(u user.User) *UserDetail {
	return &UserDetail{user: u}
}

func (d *UserDetail) User() user.User { return d.user }

func (d *UserDetail) UserID() int64 { return d.user.ID }

func (d *UserDetail) Username() string { return d.user.Username }

func (d *UserDetail) Password() string { return d.user.Password }

func (d *UserDetail) Authorities() []string {
	out := make([]string, len(d.user.Roles))
	copy(out, d.user.Roles)
	return out
}

func (d *UserDetail) IsEnabled() bool { return d.user.Enabled }

func (d *UserDetail) IsAccountNonLocked() bool { return !d.user.Locked }

func (d *UserDetail) IsAccountNonExpired() bool { return !d.user.AccountExpired }

func (d *UserDetail) IsCredentialsNonExpired() bool { return !d.user.CredentialsExpired }

// HasAuthority reports whether p was granted authority.
func HasAuthority(p Principal, authority string) bool {
	for _, a := range p.Authorities() {
		if a == authority {
			return true
		}
	}
	return false
}
