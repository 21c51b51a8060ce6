// Package config loads client settings from an optional YAML file and the
// environment. Environment variables use the WETRANSFER_ prefix and win over
// the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/wetransfer/wetransfer-go"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "WETRANSFER"

// Config holds the settings of a client.
// Example: WETRANSFER_API_KEY, WETRANSFER_UPLOAD_CONCURRENCY
type Config struct {
	APIKey            string        `split_words:"true" yaml:"api_key"`
	BaseURL           string        `split_words:"true" yaml:"base_url"`
	Timeout           time.Duration `split_words:"true" yaml:"timeout"`
	Retries           int           `split_words:"true" yaml:"retries"`
	ChunkSize         int64         `split_words:"true" yaml:"chunk_size"`
	UploadConcurrency int           `split_words:"true" yaml:"upload_concurrency"`
	MaxRetryPerChunk  int           `split_words:"true" yaml:"max_retry_per_chunk"`
	LogLevel          string        `split_words:"true" yaml:"log_level"`
	Debug             bool          `split_words:"true" yaml:"debug"`
}

// Default returns the settings used when neither file nor environment
// says otherwise.
func Default() Config {
	return Config{
		BaseURL:           wetransfer.DefaultBaseURL,
		Timeout:           30 * time.Second,
		Retries:           3,
		ChunkSize:         wetransfer.DefaultChunkSize,
		UploadConcurrency: 4,
		MaxRetryPerChunk:  3,
		LogLevel:          "info",
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if
// path is not empty), then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting. A missing API key is not an
// error here; callers that need one check it themselves.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("invalid base_url %q: must be an absolute URL", c.BaseURL)
		}
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Retries < 0 {
		return errors.New("retries must not be negative")
	}
	if c.ChunkSize < 0 {
		return errors.New("chunk_size must not be negative")
	}
	if c.UploadConcurrency < 1 {
		return errors.New("upload_concurrency must be at least 1")
	}
	if c.MaxRetryPerChunk < 1 {
		return errors.New("max_retry_per_chunk must be at least 1")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Options converts the settings into client options. The API key is not
// included; it is passed to wetransfer.New directly.
func (c *Config) Options(logger zerolog.Logger) []wetransfer.Option {
	opts := []wetransfer.Option{
		wetransfer.WithTimeout(c.Timeout),
		wetransfer.WithRetries(c.Retries),
		wetransfer.WithUploadConcurrency(c.UploadConcurrency),
		wetransfer.WithMaxRetryPerChunk(c.MaxRetryPerChunk),
		wetransfer.WithLogger(logger),
		wetransfer.WithDebugLogging(c.Debug),
	}
	if c.BaseURL != "" {
		opts = append(opts, wetransfer.WithBaseURL(c.BaseURL))
	}
	if c.ChunkSize > 0 {
		opts = append(opts, wetransfer.WithChunkSize(c.ChunkSize))
	}
	return opts
}

// MarshalZerologObject logs the settings without the API key.
func (c Config) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("api_key_present", c.APIKey != "").
		Str("base_url", c.BaseURL).
		Dur("timeout", c.Timeout).
		Int("retries", c.Retries).
		Int64("chunk_size", c.ChunkSize).
		Int("upload_concurrency", c.UploadConcurrency).
		Int("max_retry_per_chunk", c.MaxRetryPerChunk).
		Str("log_level", c.LogLevel).
		Bool("debug", c.Debug)
}

// ParseLogLevel maps a level name to a zerolog level. An empty name means
// info.
func ParseLogLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	if level == "warning" {
		return zerolog.WarnLevel, nil
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q", level)
	}
	return l, nil
}
