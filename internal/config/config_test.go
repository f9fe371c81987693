package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
jwt:
  secret: file-secret
email:
  provider: log
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "24h", cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Credentials.PasswordLength)
	assert.Equal(t, "http://localhost:9090", cfg.BaseURL())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")
	t.Setenv("SMTP_USE_TLS", "true")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Email.UseTLS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing secret", body: "server:\n  port: \"1\"\n"},
		{name: "bad expiration", body: "jwt:\n  secret: s\n  access_token_expiration: soon\n"},
		{name: "short password", body: "jwt:\n  secret: s\ncredentials:\n  password_length: 6\n"},
		{name: "sendgrid without key", body: "jwt:\n  secret: s\nemail:\n  provider: sendgrid\n"},
		{name: "s3 without bucket", body: "jwt:\n  secret: s\nstorage:\n  driver: s3\n"},
		{name: "bad env int", body: "jwt:\n  secret: s\n", env: map[string]string{"DB_MAX_OPEN_CONNS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}
