package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate pins the environment so values from the host shell do not leak in.
func isolate(t *testing.T, secretsDir string) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("PORT", "")
	t.Setenv("SECRETS_DIR", secretsDir)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join("data", "recipes.db"), cfg.Database.Path)
	assert.Equal(t, 20, cfg.Suggest.DefaultMaxResults)
	assert.True(t, cfg.Suggest.DefaultAllowSubst)
	assert.Equal(t, "directed", cfg.Suggest.SubstitutionPolicy)
	assert.Equal(t, 5*time.Minute, cfg.Suggest.CacheTTL)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolate(t, t.TempDir())
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "pantry")
	t.Setenv("SUBSTITUTION_POLICY", "symmetric")
	t.Setenv("SUGGEST_DEFAULT_MAX_RESULTS", "10")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "pantry", cfg.Database.Name)
	assert.Equal(t, "symmetric", cfg.Suggest.SubstitutionPolicy)
	assert.Equal(t, 10, cfg.Suggest.DefaultMaxResults)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret\n"), 0o600))
	isolate(t, dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	isolate(t, t.TempDir())
	t.Setenv("SUBSTITUTION_POLICY", "transitive")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggest.substitution_policy")
	assert.Contains(t, err.Error(), "db.driver")
}

func TestValidateConfigProductionNeedsPassword(t *testing.T) {
	cfg := &Config{
		Env:      Production,
		Server:   ServerConfig{Port: "5000"},
		Database: DatabaseConfig{Driver: "postgres", Host: "db", Name: "recipes", User: "app"},
		Suggest:  SuggestConfig{DefaultMaxResults: 20, MaxResultsCap: 100},
		Log:      LogConfig{Level: "info"},
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "db.password", verr.Field)

	cfg.Database.Password = "pw"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://corpus-bucket/exports/recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "corpus-bucket", bucket)
	assert.Equal(t, "exports/recipes.json", key)

	for _, bad := range []string{"https://x/y", "s3://bucket", "s3:///key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}
