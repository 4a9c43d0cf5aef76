package dto

import (
	"time"

	"authform/internal/domain"
)

// UserOutput represents user details in API responses
type UserOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NewUserOutput maps a domain user; nil stays nil
func NewUserOutput(user *domain.User) *UserOutput {
	if user == nil {
		return nil
	}
	out := &UserOutput{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
	if !user.CreatedAt.IsZero() {
		out.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return out
}
