package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, 10, cfg.UploadRatePerMinute)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins())
	assert.True(t, cfg.DevLike())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nLLM_PROVIDER=openai\nLLM_TIMEOUT=15s\n"), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cv")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.DevLike())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "claude"}},
		{name: "s3 without bucket", env: map[string]string{"OBJECT_STORE": "s3"}},
		{name: "production without database", env: map[string]string{"ENV": "production", "JWT_SECRET": "0123456789abcdef0123456789abcdef"}},
		{name: "production without secret", env: map[string]string{"ENV": "production", "DATABASE_URL": "postgres://x"}},
		{name: "short secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "negative rate", env: map[string]string{"UPLOAD_RATE_PER_MINUTE": "-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := load()
			assert.Error(t, err)
		})
	}
}
