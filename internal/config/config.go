package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Index    IndexConfig
	AI       AIConfig
	Pipeline PipelineConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
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

// S3Config holds object storage settings.
type S3Config struct {
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	ResumePrefix string `mapstructure:"resume_prefix"`
	JobPrefix    string `mapstructure:"job_prefix"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
}

// IndexConfig holds search index settings.
type IndexConfig struct {
	Path string `mapstructure:"path"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AIConfig holds metadata-extraction and embedding provider settings with
// primary/secondary fallback support.
type AIConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Embedding ProviderConfig `mapstructure:"embedding"`
}

// SecondaryConfig returns the secondary provider config, or nil if not set.
func (a *AIConfig) SecondaryConfig() *ProviderConfig {
	if a.Secondary.Provider != "" {
		return &a.Secondary
	}
	return nil
}

// PipelineConfig holds orchestrator budget and fan-out settings.
type PipelineConfig struct {
	// SoftBudget is the wall-clock budget checked before the expensive
	// stages; the external execution ceiling is ~30s.
	SoftBudget          time.Duration `mapstructure:"soft_budget"`
	EmbeddingConcurrency int          `mapstructure:"embedding_concurrency"`
	RawPreviewChars      int          `mapstructure:"raw_preview_chars"`
}

// AuthConfig holds service-token verification settings. Auth is disabled
// when Secret is empty.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CANDIX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CANDIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "candix")
	v.SetDefault("db.password", "candix_secret")
	v.SetDefault("db.name", "candix_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "candix-uploads")
	v.SetDefault("s3.resume_prefix", "resumes/")
	v.SetDefault("s3.job_prefix", "job-descriptions/")
	v.SetDefault("s3.endpoint", "")

	// Index defaults
	v.SetDefault("index.path", "data/index")

	// AI defaults
	v.SetDefault("ai.primary.provider", "gemini")
	v.SetDefault("ai.primary.api_key", "")
	v.SetDefault("ai.primary.model", "gemini-2.0-flash")
	v.SetDefault("ai.primary.timeout_secs", 20)
	v.SetDefault("ai.secondary.provider", "")
	v.SetDefault("ai.secondary.api_key", "")
	v.SetDefault("ai.secondary.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.secondary.timeout_secs", 20)
	v.SetDefault("ai.embedding.provider", "gemini")
	v.SetDefault("ai.embedding.api_key", "")
	v.SetDefault("ai.embedding.model", "gemini-embedding-001")
	v.SetDefault("ai.embedding.timeout_secs", 10)

	// Pipeline defaults
	v.SetDefault("pipeline.soft_budget", "25s")
	v.SetDefault("pipeline.embedding_concurrency", 4)
	v.SetDefault("pipeline.raw_preview_chars", 500)

	// Auth defaults
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "candix")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper reads comma-joined origins from env as a single string.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
