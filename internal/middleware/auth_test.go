package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	active bool
	err    error
}

func (s stubSessions) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return s.active, s.err
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Hour)
	userID, sessionID := uuid.New(), uuid.New()

	token, err := m.GenerateJWT(userID, sessionID)
	require.NoError(t, err)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, time.Hour, m.TTL())
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Minute)
	token, err := m.GenerateJWT(uuid.New(), uuid.New())
	require.NoError(t, err)

	other := NewJWTManager("another-secret-0123456789", time.Minute)
	_, err = other.ParseJWT(token)
	assert.Error(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.ParseJWT(token)
	assert.Error(t, err)
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err
}

func TestAuthMiddleware(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Hour)
	userID, sessionID := uuid.New(), uuid.New()
	token, err := m.GenerateJWT(userID, sessionID)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec, c, err := runMiddleware(t, AuthMiddleware(m, stubSessions{active: true}), req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		gotUser, err := GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, sessionID, c.Get("session_id"))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})

		_, _, err := runMiddleware(t, AuthMiddleware(m, nil), req)
		assert.NoError(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)

		_, _, err := runMiddleware(t, AuthMiddleware(m, nil), req)
		assertHTTPStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Token "+token)

		_, _, err := runMiddleware(t, AuthMiddleware(m, nil), req)
		assertHTTPStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("revoked session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		_, _, err := runMiddleware(t, AuthMiddleware(m, stubSessions{active: false}), req)
		assertHTTPStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("session lookup failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		_, _, err := runMiddleware(t, AuthMiddleware(m, stubSessions{err: errors.New("db down")}), req)
		assertHTTPStatus(t, err, http.StatusInternalServerError)
	})
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Code)
}
