package user

import "time"

// User is a shop account. CartID is filled by stores that can resolve the
// owned cart; a user owns at most one cart.
type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Password           string    `json:"password,omitempty"`
	Enabled            bool      `json:"enabled"`
	Locked             bool      `json:"locked"`
	AccountExpired     bool      `json:"accountExpired"`
	CredentialsExpired bool      `json:"credentialsExpired"`
	Roles              []string  `json:"roles"`
	CartID             *int64    `json:"cartId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Sanitized returns a copy without the password hash, for responses.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
