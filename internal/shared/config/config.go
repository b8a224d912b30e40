package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port                string        `mapstructure:"port" validate:"required,numeric"`
	Env                 string        `mapstructure:"env" validate:"oneof=dev local staging production"`
	LogLevel            string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	CORSAllowOrigins    string        `mapstructure:"cors_allow_origins"`
	ObjectStoreType     string        `mapstructure:"object_store" validate:"oneof=local s3"`
	LocalStoreDir       string        `mapstructure:"local_store_dir" validate:"required_if=ObjectStoreType local"`
	AWSRegion           string        `mapstructure:"aws_region"`
	S3Bucket            string        `mapstructure:"s3_bucket" validate:"required_if=ObjectStoreType s3"`
	S3Prefix            string        `mapstructure:"s3_prefix"`
	S3Endpoint          string        `mapstructure:"s3_endpoint" validate:"omitempty,url"`
	S3AccessKey         string        `mapstructure:"s3_access_key"`
	S3SecretKey         string        `mapstructure:"s3_secret_key" validate:"required_with=S3AccessKey"`
	DatabaseURL         string        `mapstructure:"database_url" validate:"required_if=Env production"`
	ValkeyAddr          string        `mapstructure:"valkey_addr" validate:"omitempty,hostname_port"`
	ValkeyPassword      string        `mapstructure:"valkey_password"`
	ProfileCacheTTL     time.Duration `mapstructure:"profile_cache_ttl" validate:"gte=0"`
	LLMProvider         string        `mapstructure:"llm_provider" validate:"oneof=gemini openai"`
	LLMModel            string        `mapstructure:"llm_model"`
	GeminiAPIKey        string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey        string        `mapstructure:"openai_api_key"`
	LLMTimeout          time.Duration `mapstructure:"llm_timeout" validate:"gt=0"`
	JWTSecret           string        `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	UploadRatePerMinute int           `mapstructure:"upload_rate_per_minute" validate:"gte=0"`
}

var defaults = map[string]any{
	"port":                   "8080",
	"env":                    "dev",
	"log_level":              "info",
	"cors_allow_origins":     "http://localhost:5173",
	"object_store":           "local",
	"local_store_dir":        "./data",
	"aws_region":             "",
	"s3_bucket":              "",
	"s3_prefix":              "",
	"s3_endpoint":            "",
	"s3_access_key":          "",
	"s3_secret_key":          "",
	"database_url":           "",
	"valkey_addr":            "",
	"valkey_password":        "",
	"profile_cache_ttl":      "5m",
	"llm_provider":           "gemini",
	"llm_model":              "",
	"gemini_api_key":         "",
	"openai_api_key":         "",
	"llm_timeout":            "60s",
	"jwt_secret":             "",
	"upload_rate_per_minute": 10,
}

// Load reads configuration from environment variables, falling back to local
// .env files and then to defaults.
func Load() (Config, error) {
	return load(".env", "cmd/.env")
}

func load(envFiles ...string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetConfigType("env")
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Config{}, fmt.Errorf("invalid config: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Env == "production" && cfg.JWTSecret == "" {
		return Config{}, errors.New("invalid config: JWT_SECRET is required in production")
	}
	return cfg, nil
}

// AllowedOrigins returns the configured CORS origins.
func (c Config) AllowedOrigins() []string {
	return splitAndTrim(c.CORSAllowOrigins)
}

// DevLike reports whether guest identities are accepted.
func (c Config) DevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
