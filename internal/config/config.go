package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Reasoning ReasoningConfig
	Pipeline  PipelineConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single reasoning service provider.
type ProviderConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	PrimaryModel   string `mapstructure:"primary_model"`
	SecondaryModel string `mapstructure:"secondary_model"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// ReasoningConfig holds the reasoning client settings shared by every run.
type ReasoningConfig struct {
	Primary  ProviderConfig `mapstructure:"primary"`
	Fallback ProviderConfig `mapstructure:"fallback"`

	MaxConcurrency    int `mapstructure:"max_concurrency"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	TokensPerMinute   int `mapstructure:"tokens_per_minute"`
	MaxRetries        int `mapstructure:"max_retries"`
	TimeoutSecs       int `mapstructure:"timeout_secs"`
	BaseBackoffMs     int `mapstructure:"base_backoff_ms"`
	MaxBackoffMs      int `mapstructure:"max_backoff_ms"`
}

// FallbackConfig returns the fallback provider config, or nil if not configured.
func (r *ReasoningConfig) FallbackConfig() *ProviderConfig {
	if r.Fallback.Provider != "" {
		return &r.Fallback
	}
	return nil
}

// CallTimeout returns the per-call timeout.
func (r *ReasoningConfig) CallTimeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// PipelineConfig holds document pipeline tuning.
type PipelineConfig struct {
	MaxChunkSize             int     `mapstructure:"max_chunk_size"`
	MinContentLength         int     `mapstructure:"min_content_length"`
	QuizThreshold            float64 `mapstructure:"quiz_threshold"`
	HighSensitivityThreshold float64 `mapstructure:"high_sensitivity_threshold"`
	MaxUploadSizeMB          int64   `mapstructure:"max_upload_size_mb"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for result artifacts.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the PRIVLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRIVLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "privlens")
	v.SetDefault("db.password", "privlens_secret")
	v.SetDefault("db.name", "privlens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "privlens-results")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "analyses")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Reasoning defaults
	v.SetDefault("reasoning.primary.provider", "openai")
	v.SetDefault("reasoning.primary.api_key", "")
	v.SetDefault("reasoning.primary.base_url", "")
	v.SetDefault("reasoning.primary.primary_model", "gpt-4o")
	v.SetDefault("reasoning.primary.secondary_model", "gpt-4o-mini")
	v.SetDefault("reasoning.primary.timeout_secs", 30)
	v.SetDefault("reasoning.fallback.provider", "")
	v.SetDefault("reasoning.fallback.api_key", "")
	v.SetDefault("reasoning.fallback.base_url", "")
	v.SetDefault("reasoning.fallback.primary_model", "")
	v.SetDefault("reasoning.fallback.secondary_model", "")
	v.SetDefault("reasoning.fallback.timeout_secs", 30)
	v.SetDefault("reasoning.max_concurrency", 8)
	v.SetDefault("reasoning.requests_per_minute", 50)
	v.SetDefault("reasoning.tokens_per_minute", 150000)
	v.SetDefault("reasoning.max_retries", 2)
	v.SetDefault("reasoning.timeout_secs", 30)
	v.SetDefault("reasoning.base_backoff_ms", 500)
	v.SetDefault("reasoning.max_backoff_ms", 8000)

	// Pipeline defaults
	v.SetDefault("pipeline.max_chunk_size", 4000)
	v.SetDefault("pipeline.min_content_length", 100)
	v.SetDefault("pipeline.quiz_threshold", 8.0)
	v.SetDefault("pipeline.high_sensitivity_threshold", 8.0)
	v.SetDefault("pipeline.max_upload_size_mb", 10)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                         "PRIVLENS_SERVER_PORT",
		"server.read_timeout":                 "PRIVLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "PRIVLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "PRIVLENS_SERVER_ENVIRONMENT",
		"db.enabled":                          "PRIVLENS_DB_ENABLED",
		"db.host":                             "PRIVLENS_DB_HOST",
		"db.port":                             "PRIVLENS_DB_PORT",
		"db.user":                             "PRIVLENS_DB_USER",
		"db.password":                         "PRIVLENS_DB_PASSWORD",
		"db.name":                             "PRIVLENS_DB_NAME",
		"db.sslmode":                          "PRIVLENS_DB_SSLMODE",
		"db.max_open":                         "PRIVLENS_DB_MAX_OPEN",
		"db.max_idle":                         "PRIVLENS_DB_MAX_IDLE",
		"s3.enabled":                          "PRIVLENS_S3_ENABLED",
		"s3.region":                           "PRIVLENS_S3_REGION",
		"s3.bucket":                           "PRIVLENS_S3_BUCKET",
		"s3.endpoint":                         "PRIVLENS_S3_ENDPOINT",
		"s3.access_key":                       "PRIVLENS_S3_ACCESS_KEY",
		"s3.secret_key":                       "PRIVLENS_S3_SECRET_KEY",
		"s3.prefix":                           "PRIVLENS_S3_PREFIX",
		"s3.presign_expiry":                   "PRIVLENS_S3_PRESIGN_EXPIRY",
		"log.level":                           "PRIVLENS_LOG_LEVEL",
		"log.format":                          "PRIVLENS_LOG_FORMAT",
		"cors.allowed_origins":                "PRIVLENS_CORS_ALLOWED_ORIGINS",
		"reasoning.primary.provider":          "PRIVLENS_REASONING_PRIMARY_PROVIDER",
		"reasoning.primary.api_key":           "PRIVLENS_REASONING_PRIMARY_API_KEY",
		"reasoning.primary.base_url":          "PRIVLENS_REASONING_PRIMARY_BASE_URL",
		"reasoning.primary.primary_model":     "PRIVLENS_REASONING_PRIMARY_PRIMARY_MODEL",
		"reasoning.primary.secondary_model":   "PRIVLENS_REASONING_PRIMARY_SECONDARY_MODEL",
		"reasoning.primary.timeout_secs":      "PRIVLENS_REASONING_PRIMARY_TIMEOUT_SECS",
		"reasoning.fallback.provider":         "PRIVLENS_REASONING_FALLBACK_PROVIDER",
		"reasoning.fallback.api_key":          "PRIVLENS_REASONING_FALLBACK_API_KEY",
		"reasoning.fallback.base_url":         "PRIVLENS_REASONING_FALLBACK_BASE_URL",
		"reasoning.fallback.primary_model":    "PRIVLENS_REASONING_FALLBACK_PRIMARY_MODEL",
		"reasoning.fallback.secondary_model":  "PRIVLENS_REASONING_FALLBACK_SECONDARY_MODEL",
		"reasoning.fallback.timeout_secs":     "PRIVLENS_REASONING_FALLBACK_TIMEOUT_SECS",
		"reasoning.max_concurrency":           "PRIVLENS_REASONING_MAX_CONCURRENCY",
		"reasoning.requests_per_minute":       "PRIVLENS_REASONING_REQUESTS_PER_MINUTE",
		"reasoning.tokens_per_minute":         "PRIVLENS_REASONING_TOKENS_PER_MINUTE",
		"reasoning.max_retries":               "PRIVLENS_REASONING_MAX_RETRIES",
		"reasoning.timeout_secs":              "PRIVLENS_REASONING_TIMEOUT_SECS",
		"reasoning.base_backoff_ms":           "PRIVLENS_REASONING_BASE_BACKOFF_MS",
		"reasoning.max_backoff_ms":            "PRIVLENS_REASONING_MAX_BACKOFF_MS",
		"pipeline.max_chunk_size":             "PRIVLENS_PIPELINE_MAX_CHUNK_SIZE",
		"pipeline.min_content_length":         "PRIVLENS_PIPELINE_MIN_CONTENT_LENGTH",
		"pipeline.quiz_threshold":             "PRIVLENS_PIPELINE_QUIZ_THRESHOLD",
		"pipeline.high_sensitivity_threshold": "PRIVLENS_PIPELINE_HIGH_SENSITIVITY_THRESHOLD",
		"pipeline.max_upload_size_mb":         "PRIVLENS_PIPELINE_MAX_UPLOAD_SIZE_MB",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if PRIVLENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PRIVLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        v.GetString("s3.prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Reasoning = ReasoningConfig{
		Primary:           providerConfig(v, "reasoning.primary"),
		Fallback:          providerConfig(v, "reasoning.fallback"),
		MaxConcurrency:    v.GetInt("reasoning.max_concurrency"),
		RequestsPerMinute: v.GetInt("reasoning.requests_per_minute"),
		TokensPerMinute:   v.GetInt("reasoning.tokens_per_minute"),
		MaxRetries:        v.GetInt("reasoning.max_retries"),
		TimeoutSecs:       v.GetInt("reasoning.timeout_secs"),
		BaseBackoffMs:     v.GetInt("reasoning.base_backoff_ms"),
		MaxBackoffMs:      v.GetInt("reasoning.max_backoff_ms"),
	}

	cfg.Pipeline = PipelineConfig{
		MaxChunkSize:             v.GetInt("pipeline.max_chunk_size"),
		MinContentLength:         v.GetInt("pipeline.min_content_length"),
		QuizThreshold:            v.GetFloat64("pipeline.quiz_threshold"),
		HighSensitivityThreshold: v.GetFloat64("pipeline.high_sensitivity_threshold"),
		MaxUploadSizeMB:          v.GetInt64("pipeline.max_upload_size_mb"),
	}

	if cfg.Pipeline.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("pipeline.max_chunk_size must be positive, got %d", cfg.Pipeline.MaxChunkSize)
	}
	if cfg.Reasoning.MaxConcurrency <= 0 {
		return nil, fmt.Errorf("reasoning.max_concurrency must be positive, got %d", cfg.Reasoning.MaxConcurrency)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:       v.GetString(prefix + ".provider"),
		APIKey:         v.GetString(prefix + ".api_key"),
		BaseURL:        v.GetString(prefix + ".base_url"),
		PrimaryModel:   v.GetString(prefix + ".primary_model"),
		SecondaryModel: v.GetString(prefix + ".secondary_model"),
		TimeoutSecs:    v.GetInt(prefix + ".timeout_secs"),
	}
}
