package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"authform/internal/domain"
)

// RemoteProvider implements AuthProvider against an external auth service
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteProvider creates a new remote auth bridge
func NewRemoteProvider(baseURL string, timeout time.Duration) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn calls POST {base}/auth/signin
func (rp *RemoteProvider) SignIn(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return rp.post(ctx, "/auth/signin", signInRequest{Email: email, Password: password})
}

// SignUp calls POST {base}/auth/signup
func (rp *RemoteProvider) SignUp(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	return rp.post(ctx, "/auth/signup", signUpRequest{Name: name, Email: email, Password: password})
}

// post sends body as JSON. Client errors (4xx) still carry an AuthResult;
// server errors and undecodable bodies are call failures.
func (rp *RemoteProvider) post(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := rp.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rp.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("auth service returned error: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var result domain.AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode auth response (status=%d): %w", resp.StatusCode, err)
	}

	return &result, nil
}

// HealthCheck checks if the auth service is healthy
func (rp *RemoteProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rp.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := rp.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to check auth service health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth service is unhealthy: status=%d", resp.StatusCode)
	}

	return nil
}
