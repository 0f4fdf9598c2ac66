package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.False(t, cfg.Server.PortFromEnv)
	assert.Equal(t, 4, cfg.Server.Workers)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, StateStoreMemory, cfg.StateStore)
	assert.Equal(t, int64(16<<20), cfg.Twilio.MediaMaxBytes)
	assert.False(t, cfg.Twilio.Enabled())
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("WORKERS", "8")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("MEDIA_TIMEOUT", "not-a-duration")
	t.Setenv("STATE_STORE", "Postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.True(t, cfg.Server.PortFromEnv)
	assert.Equal(t, 8, cfg.Server.Workers)
	assert.True(t, cfg.Twilio.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Twilio.MediaTimeout)
	assert.Equal(t, StateStorePostgres, cfg.StateStore)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nR2_ACCESS_KEY_ID=key\nR2_SECRET_ACCESS_KEY=secret\nR2_ACCOUNT_ID=acct\nR2_BUCKET_NAME=audios\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ENV_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.PortFromEnv)
	assert.True(t, cfg.R2.Enabled())
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", cfg.R2.Endpoint())
	assert.Equal(t, "https://pub-acct.r2.dev/audios", cfg.R2.PublicBase())
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "PORT", "70000"},
		{"zero workers", "WORKERS", "0"},
		{"unknown store", "STATE_STORE", "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestR2Config_PublicBaseOverride(t *testing.T) {
	r := R2Config{AccountID: "acct", Bucket: "b", PublicURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com", r.PublicBase())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "curumim", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/curumim?sslmode=disable", d.DSN())
}
