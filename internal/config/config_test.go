package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET", "s3cr3t")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Auth.Secret)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 48*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, 3*time.Hour, cfg.Cache.UserTTL)
	assert.Equal(t, time.Minute, cfg.Cache.SearchTTL)
	assert.Equal(t, "social-media", cfg.S3.Bucket)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("SECRET", "s3cr3t")
	t.Setenv("RABBITMQ_URL", "amqp://mq:5672/")
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", `
server:
  port: ":9090"
  request_timeout: 3s
  base_url: https://social.example.com/api/v1/user
auth:
  token_ttl: 1h
cache:
  search_ttl: 30s
s3:
  bucket: media
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://social.example.com/api/v1/user", cfg.Server.BaseURL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.SearchTTL)
	assert.Equal(t, "media", cfg.S3.Bucket)
	assert.Equal(t, "amqp://mq:5672/", cfg.RabbitMQ.URL)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("SECRET", "")
	require.NoError(t, os.Unsetenv("SECRET"))
	t.Cleanup(func() { os.Unsetenv("SECRET") })

	dir := t.TempDir()
	writeFile(t, dir, ".env", "SECRET=from-dotenv\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.Secret)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SECRET", "")

	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("SECRET", "s3cr3t")
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", "server: [unclosed")

	_, err := Load(dir)
	assert.Error(t, err)
}
