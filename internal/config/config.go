// Package config loads the service configuration from defaults, an optional
// YAML file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PORTFOLIO_"

// Defaults.
const (
	DefaultAddr            = ":8787"
	DefaultMetaTab         = "0"
	DefaultFetchTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// legacyEnv lists unprefixed variable names and their keys, lowest priority
// first, so GITHUB_PAT wins over GITHUB_TOKEN.
var legacyEnv = []struct {
	name, key string
}{
	{"GITHUB_TOKEN", "github_token"},
	{"GITHUB_PAT", "github_token"},
	{"GITHUB_USERNAME", "github_user"},
	{"SPREADSHEET_ID", "spreadsheet_id"},
}

// Config is the complete service configuration.
type Config struct {
	Addr              string        `koanf:"addr"`
	SpreadsheetID     string        `koanf:"spreadsheet_id"`
	MetaTab           string        `koanf:"meta_tab"`
	GitHubUser        string        `koanf:"github_user"`
	GitHubToken       string        `koanf:"github_token"`
	FetchTimeout      time.Duration `koanf:"fetch_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	SheetsCredentials string        `koanf:"sheets_credentials"`
	SheetsBaseURL     string        `koanf:"sheets_base_url"`
	GitHubGraphQLURL  string        `koanf:"github_graphql_url"`
	GitHubRESTURL     string        `koanf:"github_rest_url"`
	ExposeErrors      bool          `koanf:"expose_errors"`
}

// Load reads configuration. Precedence (highest to lowest): explicitly set
// flags > PORTFOLIO_* env vars > legacy env vars > config file > defaults.
// cfgFile and flags may be empty.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"addr":             DefaultAddr,
		"meta_tab":         DefaultMetaTab,
		"fetch_timeout":    DefaultFetchTimeout,
		"shutdown_timeout": DefaultShutdownTimeout,
		"expose_errors":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	for _, v := range legacyEnv {
		if err := k.Load(env.Provider(v.name, ".", func(s string) string {
			if s != v.name {
				return ""
			}
			return v.key
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env var %s: %w", v.name, err)
		}
	}

	// Transform: PORTFOLIO_FETCH_TIMEOUT -> fetch_timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" || f.Name == "verbose" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// RequireContent checks the settings needed by the content route.
func (c *Config) RequireContent() error {
	if c.SpreadsheetID == "" {
		return errors.New("spreadsheet_id is not set (SPREADSHEET_ID or PORTFOLIO_SPREADSHEET_ID)")
	}
	return nil
}

// RequireStats checks the settings needed by the statistics route.
func (c *Config) RequireStats() error {
	var errs []error
	if c.GitHubUser == "" {
		errs = append(errs, errors.New("github_user is not set (GITHUB_USERNAME or PORTFOLIO_GITHUB_USER)"))
	}
	if c.GitHubToken == "" {
		errs = append(errs, errors.New("github_token is not set (GITHUB_PAT or PORTFOLIO_GITHUB_TOKEN)"))
	}
	return errors.Join(errs...)
}
