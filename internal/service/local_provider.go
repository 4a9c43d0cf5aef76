package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"authform/internal/domain"
	"authform/internal/middleware"
)

// Messages returned to the form when the local provider turns a request down
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailRegistered    = "Email already registered"
)

// LocalProvider authenticates against the users table and keeps sessions in Postgres
type LocalProvider struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	tokens     *middleware.JWTManager
	sessionTTL time.Duration
	hashCost   int
	logger     *zap.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewLocalProvider creates a new LocalProvider
func NewLocalProvider(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens *middleware.JWTManager,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *LocalProvider {
	return &LocalProvider{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		hashCost:   bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

// SignUp registers a new user. A taken email is a rejection, not an error.
func (p *LocalProvider) SignUp(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	_, err := p.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return &domain.AuthResult{Success: false, Message: MsgEmailRegistered}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return &domain.AuthResult{Success: false, Message: MsgEmailRegistered}, nil
		}
		return nil, err
	}

	p.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return &domain.AuthResult{Success: true, User: user}, nil
}

// SignIn checks the credentials, opens a session and issues a token for it
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// unknown emails pay the same bcrypt cost as a wrong password
		_ = bcrypt.CompareHashAndPassword(p.unknownUserHash(), []byte(password))
		return &domain.AuthResult{Success: false, Message: MsgInvalidCredentials}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return &domain.AuthResult{Success: false, Message: MsgInvalidCredentials}, nil
	}

	now := p.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(p.sessionTTL),
		CreatedAt: now,
	}
	if err := p.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := p.tokens.GenerateJWT(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	p.logger.Info("user signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()),
	)
	return &domain.AuthResult{Success: true, Token: token, User: user}, nil
}

// unknownUserHash returns a hash at the provider's cost that no password matches
func (p *LocalProvider) unknownUserHash() []byte {
	p.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), p.hashCost)
		if err != nil {
			p.logger.Error("failed to prepare unknown user hash", zap.Error(err))
			return
		}
		p.dummyHash = hash
	})
	return p.dummyHash
}

// SignOut ends the session referenced by token. Unparseable tokens have nothing to end.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.ParseJWT(token)
	if err != nil {
		return nil
	}
	return p.sessions.Delete(ctx, claims.SessionID)
}

// SessionActive reports whether the session exists and has not expired
func (p *LocalProvider) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	session, err := p.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !session.Expired(p.now()), nil
}

// PurgeExpiredSessions deletes sessions past their expiry
func (p *LocalProvider) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return p.sessions.DeleteExpired(ctx, p.now())
}
