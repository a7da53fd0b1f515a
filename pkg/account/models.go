package account

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level stored on an account.
type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// UsernameProvider is the provider id of password credentials.
const UsernameProvider = "username"

// Account is a registered user profile
type Account struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential binds an auth provider identity to an account.
// Secret holds the password hash, never the password.
type Credential struct {
	ProviderID     string    `json:"provider_id"`
	ProviderUserID string    `json:"provider_user_id"`
	AccountID      uuid.UUID `json:"account_id"`
	Secret         string    `json:"-"`
}

// GroupMembership links an account to a group
type GroupMembership struct {
	GroupID   uuid.UUID `json:"group_id"`
	AccountID uuid.UUID `json:"account_id"`
	Active    bool      `json:"active"`
}

// RegisterParams contains the profile and plaintext password of a new account
type RegisterParams struct {
	Username string
	Email    string
	Name     string
	Password string
	Role     Role
}

// CreateAccountParams is what the repository persists in one write
type CreateAccountParams struct {
	Username     string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
}
