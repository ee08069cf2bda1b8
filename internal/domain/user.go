package domain

import "time"

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a user in the system. The password hash and the
// refresh token are never serialized; the refresh token is a single
// slot, so issuing a new one always overwrites the previous one.
type User struct {
	ID                string     `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	Role              string     `json:"role" db:"role"`
	Active            bool       `json:"active" db:"active"`
	PasswordChangedAt *time.Time `json:"-" db:"password_changed_at"`
	RefreshToken      *string    `json:"-" db:"refresh_token"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed after
// the given token issue time (unix seconds). Tokens issued before a
// password change are rejected even though their signature verifies.
func (u *User) ChangedPasswordAfter(issuedAt int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt < u.PasswordChangedAt.Unix()
}
