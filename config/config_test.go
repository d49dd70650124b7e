package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "sibors.db", cfg.Database.DSN())
	assert.Equal(t, "local", cfg.Images.Storage)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.LedgerCheckSchedule)
	assert.Empty(t, cfg.Redis.Host)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_PASSWORD", "secreto")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("ALLOWED_ORIGINS", "http://caja.local, http://admin.local ,")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=db.local port=5432 user=sibors password=secreto dbname=sibors sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, []string{"http://caja.local", "http://admin.local"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "Unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "Unknown image storage", env: map[string]string{"IMAGE_STORAGE": "ftp"}},
		{name: "S3 without bucket", env: map[string]string{"IMAGE_STORAGE": "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 12*time.Hour, parseDuration("nope"))
	assert.Equal(t, 0, parseInt("x"))
	assert.Empty(t, parseSlice(""))
}
