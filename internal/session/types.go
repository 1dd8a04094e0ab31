package session

import (
	"context"
	"strings"
)

// User is the cached profile of the signed-in account
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NewUser is the registration request body. The dashboard sends first and
// last name, the mobile client a display name; both shapes are accepted.
type NewUser struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName,omitempty" validate:"required"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
}

// normalize fills DisplayName from first/last name when it is missing
func (n NewUser) normalize() NewUser {
	n.Email = strings.TrimSpace(n.Email)
	n.DisplayName = strings.TrimSpace(n.DisplayName)
	if n.DisplayName == "" {
		n.DisplayName = strings.TrimSpace(strings.TrimSpace(n.FirstName) + " " + strings.TrimSpace(n.LastName))
	}
	return n
}

// AuthResponse is returned by the login and register endpoints
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Authenticator is the remote auth collaborator
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Register(ctx context.Context, user NewUser) (*AuthResponse, error)
}
