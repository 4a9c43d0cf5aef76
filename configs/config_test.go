package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.OpsPort)
	assert.Equal(t, ProviderLocal, cfg.Auth.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.Forms.IdleTTL)
	assert.Equal(t, 10000, cfg.Forms.MaxOpen)
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GO_ENV", "production")
	t.Setenv("AUTH_PROVIDER", ProviderRemote)
	t.Setenv("AUTH_REMOTE_URL", "http://auth.internal:7000")
	t.Setenv("JWT_SECRET", "prod-secret-0123456789abcdef")
	t.Setenv("FORM_MAX_OPEN", "500")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("SECURE_COOKIE", "true")
	t.Setenv("FORM_IDLE_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Server.SecureCookie)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.Forms.IdleTTL)
	assert.Equal(t, 500, cfg.Forms.MaxOpen)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "local provider with database",
			mutate: func(c *Config) { c.Database.URL = "postgres://localhost/authform" },
		},
		{
			name:    "local provider without database",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name: "remote provider without url",
			mutate: func(c *Config) {
				c.Auth.Provider = ProviderRemote
				c.Auth.RemoteURL = ""
			},
			wantErr: "AUTH_REMOTE_URL",
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.Auth.Provider = "ldap"
				c.Database.URL = "postgres://localhost/authform"
			},
			wantErr: "Provider",
		},
		{
			name: "short jwt secret",
			mutate: func(c *Config) {
				c.Auth.JWTSecret = "short"
				c.Database.URL = "postgres://localhost/authform"
			},
			wantErr: "JWTSecret",
		},
		{
			name: "default jwt secret in production",
			mutate: func(c *Config) {
				c.Server.Env = "production"
				c.Auth.JWTSecret = DefaultJWTSecret
				c.Database.URL = "postgres://localhost/authform"
			},
			wantErr: "JWT_SECRET",
		},
		{
			name: "default jwt secret in development",
			mutate: func(c *Config) {
				c.Server.Env = "development"
				c.Auth.JWTSecret = DefaultJWTSecret
				c.Database.URL = "postgres://localhost/authform"
			},
		},
		{
			name: "form cap disabled",
			mutate: func(c *Config) {
				c.Forms.MaxOpen = 0
				c.Database.URL = "postgres://localhost/authform"
			},
			wantErr: "MaxOpen",
		},
		{
			name: "ops port equals api port",
			mutate: func(c *Config) {
				c.Server.OpsPort = c.Server.Port
				c.Database.URL = "postgres://localhost/authform"
			},
			wantErr: "OpsPort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
