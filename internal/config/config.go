// Package config provides configuration loading and path utilities.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/llm"
)

// Config is the resolved application configuration.
type Config struct {
	DatabasePath string
	OutputDir    string
	LLM          llm.Config
}

// Load resolves configuration from viper. Call after viper has read the
// config file and environment.
func Load() (*Config, error) {
	viper.SetDefault("database.path", "$HOME/.local/share/mizan/corpus.db")
	viper.SetDefault("output.dir", "$HOME/.local/share/mizan/reports")
	viper.SetDefault("llm.provider", "offline")
	viper.SetDefault("llm.max_retries", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.cache_ttl", "1h")
	viper.SetDefault("llm.rate_limit", 10)
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.max_tokens", 1024)

	retryDelay, err := time.ParseDuration(viper.GetString("llm.retry_delay"))
	if err != nil {
		return nil, fmt.Errorf("%w: llm.retry_delay: %v", common.ErrInvalidConfig, err)
	}
	cacheTTL, err := time.ParseDuration(viper.GetString("llm.cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("%w: llm.cache_ttl: %v", common.ErrInvalidConfig, err)
	}

	cfg := &Config{
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		OutputDir:    ExpandPath(viper.GetString("output.dir")),
		LLM: llm.Config{
			Provider:    viper.GetString("llm.provider"),
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			MaxRetries:  viper.GetInt("llm.max_retries"),
			RetryDelay:  retryDelay,
			CacheTTL:    cacheTTL,
			RateLimit:   viper.GetInt("llm.rate_limit"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("%w: llm.api_key is required for provider %q",
				common.ErrMissingConfig, c.LLM.Provider)
		}
	case "static", "offline":
	default:
		return fmt.Errorf("%w: unknown llm.provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	return nil
}

// ExpandPath expands a leading ~ and $VAR environment references in a
// file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
