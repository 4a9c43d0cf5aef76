package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"authform/internal/domain"
)

type MockAuthProvider struct{ mock.Mock }

func (m *MockAuthProvider) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthProvider) SignUp(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func authResult(success bool, message string) *domain.AuthResult {
	return &domain.AuthResult{Success: success, Message: message}
}
