package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"-"`

	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Suggest   SuggestConfig   `mapstructure:"suggest"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and configures the corpus store.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig configures the optional redis connection.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SuggestConfig holds the suggestion defaults applied at the API boundary.
type SuggestConfig struct {
	DefaultMaxResults  int           `mapstructure:"default_max_results"`
	MaxResultsCap      int           `mapstructure:"max_results_cap"`
	DefaultAllowSubst  bool          `mapstructure:"default_allow_subst"`
	SubstitutionPolicy string        `mapstructure:"substitution_policy"`
	Singularize        bool          `mapstructure:"singularize"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig configures the per-client fixed window limiter.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CorpusConfig controls corpus loading and import.
type CorpusConfig struct {
	AllowEmpty         bool   `mapstructure:"allow_empty"`
	InvalidateChannel  string `mapstructure:"invalidate_channel"`
	S3Region           string `mapstructure:"s3_region"`
	S3Endpoint         string `mapstructure:"s3_endpoint"`
	DefaultDocumentURI string `mapstructure:"document_uri"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig creates a new Config instance with values from defaults, an
// optional .env file, environment variables and docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	cfg := &Config{Env: env}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Load configuration based on environment
	switch env {
	case CI:
		// CI passes every value, secrets included, through the environment.
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", filepath.Join("data", "recipes.db"))
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "recipes")
	v.SetDefault("db.ssl_mode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("suggest.default_max_results", 20)
	v.SetDefault("suggest.max_results_cap", 100)
	v.SetDefault("suggest.default_allow_subst", true)
	v.SetDefault("suggest.substitution_policy", "directed")
	v.SetDefault("suggest.singularize", true)
	v.SetDefault("suggest.cache_ttl", "5m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("corpus.allow_empty", false)
	v.SetDefault("corpus.invalidate_channel", "corpus:invalidate")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
}

// bindEnv maps the flat variable names used by deployments onto config keys.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("db.driver", "DB_DRIVER")
	_ = v.BindEnv("db.path", "DB_PATH")
	_ = v.BindEnv("db.host", "DB_HOST")
	_ = v.BindEnv("db.port", "DB_PORT")
	_ = v.BindEnv("db.user", "DB_USER")
	_ = v.BindEnv("db.password", "DB_PASSWORD")
	_ = v.BindEnv("db.name", "DB_NAME")
	_ = v.BindEnv("db.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("suggest.default_max_results", "SUGGEST_DEFAULT_MAX_RESULTS")
	_ = v.BindEnv("suggest.max_results_cap", "SUGGEST_MAX_RESULTS_CAP")
	_ = v.BindEnv("suggest.default_allow_subst", "SUGGEST_DEFAULT_ALLOW_SUBST")
	_ = v.BindEnv("suggest.substitution_policy", "SUBSTITUTION_POLICY")
	_ = v.BindEnv("suggest.singularize", "SUGGEST_SINGULARIZE")
	_ = v.BindEnv("suggest.cache_ttl", "SUGGEST_CACHE_TTL")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("corpus.allow_empty", "CORPUS_ALLOW_EMPTY")
	_ = v.BindEnv("corpus.invalidate_channel", "CORPUS_INVALIDATE_CHANNEL")
	_ = v.BindEnv("corpus.s3_region", "AWS_REGION")
	_ = v.BindEnv("corpus.s3_endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("corpus.document_uri", "CORPUS_DOCUMENT_URI")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

// loadSecrets fills sensitive values from docker secrets when the environment
// did not already provide them.
func loadSecrets(cfg *Config) {
	if cfg.Database.Password == "" {
		cfg.Database.Password = readSecret("db_password")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = readSecret("redis_url")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
