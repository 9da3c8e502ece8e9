package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Debug  bool   `envconfig:"DEBUG" default:"false"`

	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"5000"`
	AllowOrigins    string        `envconfig:"ALLOW_ORIGINS" default:"*"`
	MaxUploadSize   string        `envconfig:"MAX_UPLOAD_SIZE" default:"10M"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
	LogFile   string `envconfig:"LOG_FILE" default:"app.log"`

	Model ModelConfig `envconfig:"MODEL"`
}

// ModelConfig fields are read as MODEL_<FIELD_NAME>. They use split_words
// instead of explicit names so an unset MODEL_PATH never falls back to PATH.
type ModelConfig struct {
	Path           string `split_words:"true" default:"models/model.onnx"`
	MetadataPath   string `split_words:"true" default:"models/model_metadata.json"`
	RuntimeLibrary string `split_words:"true"`
	MaxImagePixels int    `split_words:"true" default:"40000000"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
