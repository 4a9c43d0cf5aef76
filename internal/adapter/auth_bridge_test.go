package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T, handler http.HandlerFunc) *RemoteProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteProvider(srv.URL+"/", 2*time.Second)
}

func TestRemoteProvider_SignIn(t *testing.T) {
	var got signInRequest
	rp := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success": true, "token": "abc"}`))
	})

	res, err := rp.SignIn(context.Background(), "a@b.com", "p")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, signInRequest{Email: "a@b.com", Password: "p"}, got)
}

func TestRemoteProvider_SignUpRejected(t *testing.T) {
	var got signUpRequest
	rp := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signup", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "message": "Email already registered"}`))
	})

	res, err := rp.SignUp(context.Background(), "Ana", "a@b.co", "123456")

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Email already registered", res.Message)
	assert.Equal(t, "Ana", got.Name)
}

func TestRemoteProvider_CallFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"undecodable body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := newAuthServer(t, tt.handler)

			res, err := rp.SignIn(context.Background(), "a@b.com", "p")

			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestRemoteProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rp := NewRemoteProvider(url, time.Second)
	_, err := rp.SignIn(context.Background(), "a@b.com", "p")
	assert.Error(t, err)
	assert.Error(t, rp.HealthCheck(context.Background()))
}

func TestRemoteProvider_HealthCheck(t *testing.T) {
	rp := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, rp.HealthCheck(context.Background()))
}
