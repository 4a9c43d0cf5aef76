package domain

import "context"

// AuthResult is what an authentication provider answers for a sign-in or sign-up.
// Message is provider-supplied and may be empty.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// AuthProvider is the external authentication capability consumed by the form controller.
// A returned error means the call itself failed, not that the credentials were rejected.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignUp(ctx context.Context, name, email, password string) (*AuthResult, error)
}

// SessionRevoker is implemented by providers that keep server-side sessions
type SessionRevoker interface {
	SignOut(ctx context.Context, token string) error
}
