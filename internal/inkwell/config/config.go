// Package config loads the global inkwell configuration through viper.
//
// The resulting Config is constructed once at process start and passed by
// reference; nothing mutates it afterwards. It is the middle tier of the
// three-tier precedence for agent settings: per-definition value >
// config value > hard-coded fallback.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Hard-coded fallbacks, the lowest precedence tier.
const (
	DefaultModel         = "openai/gpt-4o-mini"
	DefaultMaxToolRounds = 10
	DefaultRunTimeout    = 5 * time.Minute
	DefaultRetryAttempts = 3
	DefaultRetryBaseWait = 500 * time.Millisecond
	DefaultHTTPAddr      = ":11789"
)

// GenerationDefaults is the config-file tier for generation parameters.
// Nil fields mean "no config override"; the provider default applies.
type GenerationDefaults struct {
	Model            string   `mapstructure:"model"`
	Temperature      *float64 `mapstructure:"temperature"`
	MaxTokens        *int     `mapstructure:"max_tokens"`
	TopP             *float64 `mapstructure:"top_p"`
	FrequencyPenalty *float64 `mapstructure:"frequency_penalty"`
	PresencePenalty  *float64 `mapstructure:"presence_penalty"`
}

// ProviderConfig configures one LLM provider plugin.
type ProviderConfig struct {
	// BaseURL overrides the provider's default endpoint.
	BaseURL string `mapstructure:"base_url"`

	// APIKey may reference an environment variable as "${VAR_NAME}".
	APIKey string `mapstructure:"api_key"`
}

// RetryConfig bounds transient-failure retries in the dispatcher.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseWait    time.Duration `mapstructure:"base_wait"`
}

// HTTPConfig configures the inkwelld gin server.
type HTTPConfig struct {
	Addr  string `mapstructure:"addr"`
	Debug bool   `mapstructure:"debug"`

	// Token enables bearer authentication when non-empty. Loopback
	// requests bypass it. May reference an env var as "${VAR_NAME}".
	Token string `mapstructure:"token"`
}

// Config is the immutable global configuration.
type Config struct {
	// AgentsDir holds agent definition markdown files.
	AgentsDir string `mapstructure:"agents_dir"`

	// IncludesDir holds reusable prompt fragments for the renderer.
	IncludesDir string `mapstructure:"includes_dir"`

	// DataDir holds the run database and artifact namespaces.
	DataDir string `mapstructure:"data_dir"`

	LogLevel string `mapstructure:"log_level"`

	Defaults      GenerationDefaults        `mapstructure:"defaults"`
	MaxToolRounds int                       `mapstructure:"max_tool_rounds"`
	RunTimeout    time.Duration             `mapstructure:"run_timeout"`
	Retry         RetryConfig               `mapstructure:"retry"`
	Providers     map[string]ProviderConfig `mapstructure:"providers"`
	HTTP          HTTPConfig                `mapstructure:"http"`
}

// Load reads the configuration from path, or from the default search
// locations when path is empty ($INKWELL_CONFIG, then
// ~/.inkwell/config.yaml). A missing file yields pure defaults;
// INKWELL_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	home, _ := os.UserHomeDir()
	baseDir := filepath.Join(home, ".inkwell")

	v.SetDefault("agents_dir", filepath.Join(baseDir, "agents"))
	v.SetDefault("includes_dir", filepath.Join(baseDir, "includes"))
	v.SetDefault("data_dir", filepath.Join(baseDir, "data"))
	v.SetDefault("log_level", "info")
	v.SetDefault("defaults.model", DefaultModel)
	v.SetDefault("max_tool_rounds", DefaultMaxToolRounds)
	v.SetDefault("run_timeout", DefaultRunTimeout)
	v.SetDefault("retry.max_attempts", DefaultRetryAttempts)
	v.SetDefault("retry.base_wait", DefaultRetryBaseWait)
	v.SetDefault("http.addr", DefaultHTTPAddr)

	if path == "" {
		path = os.Getenv("INKWELL_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(baseDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = DefaultRetryAttempts
	}
	if cfg.Retry.BaseWait <= 0 {
		cfg.Retry.BaseWait = DefaultRetryBaseWait
	}
	if cfg.Defaults.Model == "" {
		cfg.Defaults.Model = DefaultModel
	}

	return cfg, nil
}

// RunDBPath returns the bolt database file location.
func (c *Config) RunDBPath() string {
	return filepath.Join(c.DataDir, "runs.db")
}

// ArtifactsDir returns the root of the per-run artifact namespaces.
func (c *Config) ArtifactsDir() string {
	return filepath.Join(c.DataDir, "artifacts")
}
