// Package config assembles runtime settings from defaults, an optional TOML
// file and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/gsarma/codepad/internal/code"
)

const DefaultJudge0URL = "https://judge0-ce.p.rapidapi.com"

// RateLimit bounds how fast a single client may hit the execution routes.
type RateLimit struct {
	RPS   float64
	Burst int
}

type Config struct {
	Port      string
	LogLevel  string
	Judge0    code.Judge0Config
	RateLimit RateLimit
}

type fileConfig struct {
	Port     string `toml:"port"`
	LogLevel string `toml:"log_level"`
	Judge0   struct {
		URL          string `toml:"url"`
		APIKey       string `toml:"api_key"`
		APIHost      string `toml:"api_host"`
		AuthToken    string `toml:"auth_token"`
		MaxAttempts  int    `toml:"max_attempts"`
		PollInterval string `toml:"poll_interval"`
		HTTPTimeout  string `toml:"http_timeout"`
	} `toml:"judge0"`
	RateLimit struct {
		RPS   float64 `toml:"rps"`
		Burst int     `toml:"burst"`
	} `toml:"rate_limit"`
}

// Default returns the built-in settings. Credentials are left empty.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Judge0: code.Judge0Config{
			URL:          DefaultJudge0URL,
			MaxAttempts:  code.DefaultMaxAttempts,
			PollInterval: code.DefaultPollInterval,
			Timeout:      30 * time.Second,
		},
		RateLimit: RateLimit{RPS: 2, Burst: 5},
	}
}

// Load reads .env (if present), the TOML file named by CODEPAD_CONFIG (if set)
// and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CODEPAD_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if cfg.Judge0.APIHost == "" {
		if u, err := url.Parse(cfg.Judge0.URL); err == nil {
			cfg.Judge0.APIHost = u.Host
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.Judge0.URL, fc.Judge0.URL)
	setString(&c.Judge0.APIKey, fc.Judge0.APIKey)
	setString(&c.Judge0.APIHost, fc.Judge0.APIHost)
	setString(&c.Judge0.AuthToken, fc.Judge0.AuthToken)
	if fc.Judge0.MaxAttempts != 0 {
		c.Judge0.MaxAttempts = fc.Judge0.MaxAttempts
	}
	if err := setDuration(&c.Judge0.PollInterval, "poll_interval", fc.Judge0.PollInterval); err != nil {
		return err
	}
	if err := setDuration(&c.Judge0.Timeout, "http_timeout", fc.Judge0.HTTPTimeout); err != nil {
		return err
	}
	if fc.RateLimit.RPS != 0 {
		c.RateLimit.RPS = fc.RateLimit.RPS
	}
	if fc.RateLimit.Burst != 0 {
		c.RateLimit.Burst = fc.RateLimit.Burst
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.Judge0.URL, os.Getenv("JUDGE0_URL"))
	setString(&c.Judge0.APIKey, os.Getenv("JUDGE0_API_KEY"))
	setString(&c.Judge0.APIHost, os.Getenv("JUDGE0_API_HOST"))
	setString(&c.Judge0.AuthToken, os.Getenv("JUDGE0_AUTH_TOKEN"))

	if v := os.Getenv("JUDGE0_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JUDGE0_MAX_ATTEMPTS must be an integer: %w", err)
		}
		c.Judge0.MaxAttempts = n
	}
	if err := setDuration(&c.Judge0.PollInterval, "JUDGE0_POLL_INTERVAL", os.Getenv("JUDGE0_POLL_INTERVAL")); err != nil {
		return err
	}
	if err := setDuration(&c.Judge0.Timeout, "JUDGE0_HTTP_TIMEOUT", os.Getenv("JUDGE0_HTTP_TIMEOUT")); err != nil {
		return err
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS must be a number: %w", err)
		}
		c.RateLimit.RPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST must be an integer: %w", err)
		}
		c.RateLimit.Burst = n
	}
	return nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Judge0.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("judge0 url %q must be an absolute URL", c.Judge0.URL)
	}
	if c.Judge0.MaxAttempts <= 0 {
		return errors.New("judge0 max attempts must be positive")
	}
	if c.Judge0.PollInterval <= 0 {
		return errors.New("judge0 poll interval must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit rps and burst must be positive")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration like 1s or 500ms: %w", name, err)
	}
	*dst = d
	return nil
}
