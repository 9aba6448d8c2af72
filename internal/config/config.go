package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir      = ".aha-mcp"
	configFileName = "config.json"
)

// Config is read once at process start and passed to the engine; nothing
// reads it from ambient state afterwards.
type Config struct {
	// Domain is the Aha! subdomain: "acme" for https://acme.aha.io.
	Domain    string `mapstructure:"domain" json:"domain"`
	APIToken  string `mapstructure:"api_token" json:"api_token,omitempty"`
	ProductID string `mapstructure:"product_id" json:"product_id,omitempty"`
	UserEmail string `mapstructure:"user_email" json:"user_email,omitempty"`
	// BaseURL overrides https://<domain>.aha.io (tests, proxies).
	BaseURL  string `mapstructure:"base_url" json:"base_url,omitempty"`
	LogLevel string `mapstructure:"log_level" json:"log_level,omitempty"`
}

var envBindings = map[string]string{
	"domain":     "AHA_DOMAIN",
	"api_token":  "AHA_API_TOKEN",
	"product_id": "AHA_PRODUCT_ID",
	"user_email": "AHA_USER_EMAIL",
	"base_url":   "AHA_BASE_URL",
	"log_level":  "AHA_LOG_LEVEL",
}

// GetConfigPath returns the path to the config file (~/.aha-mcp/config.json)
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// Load reads .env, the user config file and AHA_* environment variables,
// in increasing order of precedence. An empty token is filled from the OS
// keyring.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	// A missing .env is the common case.
	_ = godotenv.Load()
	return LoadFile(path, NewKeyringStore())
}

// LoadFile is Load with an explicit config file path and token store.
// tokens may be nil.
func LoadFile(path string, tokens TokenStore) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	v.SetDefault("log_level", "info")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.normalize()

	if cfg.APIToken == "" && tokens != nil {
		if tok, err := tokens.Get(); err == nil {
			cfg.APIToken = strings.TrimSpace(tok)
		}
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Domain = strings.TrimSpace(c.Domain)
	// Accept "acme.aha.io" or a full URL as well as the bare subdomain.
	c.Domain = strings.TrimPrefix(c.Domain, "https://")
	c.Domain = strings.TrimPrefix(c.Domain, "http://")
	c.Domain = strings.TrimSuffix(c.Domain, "/")
	c.Domain = strings.TrimSuffix(c.Domain, ".aha.io")
	c.APIToken = strings.TrimSpace(c.APIToken)
	c.ProductID = strings.TrimSpace(c.ProductID)
	c.UserEmail = strings.TrimSpace(c.UserEmail)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return errors.New("AHA_API_TOKEN environment variable is required")
	}
	if c.Domain == "" && c.BaseURL == "" {
		return errors.New("AHA_DOMAIN environment variable is required")
	}
	return nil
}

// APIBaseURL is the root every API path is appended to.
func (c *Config) APIBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://" + c.Domain + ".aha.io"
}

// Public returns the configuration without secrets.
func (c *Config) Public() map[string]any {
	return map[string]any{
		"domain":           c.Domain,
		"api_base_url":     c.APIBaseURL(),
		"product_id":       c.ProductID,
		"user_email":       c.UserEmail,
		"api_token_loaded": c.APIToken != "",
	}
}

// SaveConfig writes cfg to path, creating the directory. The token is
// written only when withToken is set; setup stores it in the keyring instead.
func SaveConfig(path string, cfg *Config, withToken bool) error {
	out := *cfg
	if !withToken {
		out.APIToken = ""
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
