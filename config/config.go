// Package config loads and validates client configuration from built-in
// defaults, an optional JSON or YAML file, NETBIRD_* environment variables
// and explicit overrides, merged in that order of increasing precedence.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	netbird "github.com/peteraglen/netbird-go-client"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the client. Durations are plain numbers
// (seconds) to match the environment and file formats.
type Config struct {
	APIKey             string  `json:"api_key" yaml:"api_key"`
	APIURL             string  `json:"api_url" yaml:"api_url"`
	Timeout            int     `json:"timeout" yaml:"timeout"`
	MaxRetries         int     `json:"max_retries" yaml:"max_retries"`
	RetryDelay         float64 `json:"retry_delay" yaml:"retry_delay"`
	RetryBackoffFactor float64 `json:"retry_backoff_factor" yaml:"retry_backoff_factor"`
	VerifySSL          bool    `json:"verify_ssl" yaml:"verify_ssl"`
	UserAgent          string  `json:"user_agent" yaml:"user_agent"`

	ConnectionPoolSize    int    `json:"connection_pool_size" yaml:"connection_pool_size"`
	ConnectionPoolMaxSize int    `json:"connection_pool_max_size" yaml:"connection_pool_max_size"`
	EnableLogging         bool   `json:"enable_logging" yaml:"enable_logging"`
	LogLevel              string `json:"log_level" yaml:"log_level"`

	// Rate limiting hints; both must be set together.
	RateLimitRequests *int `json:"rate_limit_requests" yaml:"rate_limit_requests"`
	RateLimitPeriod   *int `json:"rate_limit_period" yaml:"rate_limit_period"`

	ExtraHeaders map[string]string `json:"extra_headers" yaml:"extra_headers"`
}

var validLogLevels = map[string]struct{}{
	"DEBUG":    {},
	"INFO":     {},
	"WARNING":  {},
	"ERROR":    {},
	"CRITICAL": {},
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		APIURL:                "https://api.netbird.io",
		Timeout:               30,
		MaxRetries:            3,
		RetryDelay:            1.0,
		RetryBackoffFactor:    2.0,
		VerifySSL:             true,
		UserAgent:             "netbird-go-client/0.1.0",
		ConnectionPoolSize:    10,
		ConnectionPoolMaxSize: 20,
		LogLevel:              "INFO",
		ExtraHeaders:          map[string]string{},
	}
}

// FromEnv reads NETBIRD_* environment variables on top of the defaults.
// Malformed numeric values are reported as a ConfigurationError.
func FromEnv() (*Config, error) {
	cfg := Default()
	var errs []string

	cfg.APIKey = os.Getenv("NETBIRD_API_KEY")
	if v := os.Getenv("NETBIRD_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("NETBIRD_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("NETBIRD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	intEnv(&cfg.Timeout, "NETBIRD_TIMEOUT", &errs)
	intEnv(&cfg.MaxRetries, "NETBIRD_MAX_RETRIES", &errs)
	floatEnv(&cfg.RetryDelay, "NETBIRD_RETRY_DELAY", &errs)
	floatEnv(&cfg.RetryBackoffFactor, "NETBIRD_RETRY_BACKOFF_FACTOR", &errs)
	boolEnv(&cfg.VerifySSL, "NETBIRD_VERIFY_SSL")
	intEnv(&cfg.ConnectionPoolSize, "NETBIRD_POOL_SIZE", &errs)
	intEnv(&cfg.ConnectionPoolMaxSize, "NETBIRD_POOL_MAX_SIZE", &errs)
	boolEnv(&cfg.EnableLogging, "NETBIRD_ENABLE_LOGGING")
	optionalIntEnv(&cfg.RateLimitRequests, "NETBIRD_RATE_LIMIT_REQUESTS", &errs)
	optionalIntEnv(&cfg.RateLimitPeriod, "NETBIRD_RATE_LIMIT_PERIOD", &errs)

	if len(errs) > 0 {
		return nil, netbird.NewConfigurationError("invalid environment configuration: " + strings.Join(errs, "; "))
	}
	return cfg, nil
}

// FromFile loads a JSON or YAML configuration file on top of the defaults.
// Unknown keys are ignored.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, netbird.NewConfigurationError(fmt.Sprintf("failed to read configuration file: %v", err))
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, netbird.NewConfigurationError(fmt.Sprintf(
			"unsupported configuration file format %q (supported: .json, .yaml, .yml)", filepath.Ext(path)))
	}
	if err != nil {
		return nil, netbird.NewConfigurationError(fmt.Sprintf("failed to parse configuration file: %v", err))
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = map[string]string{}
	}
	return cfg, nil
}

// Resolve merges the sources field-by-field with precedence
// overrides > env > file > defaults and validates the result. Any source
// may be nil.
//
// A field from a higher-precedence source wins only when its value differs
// from the built-in default, so configs passed here must be derived from
// [Default]; setting a field explicitly to its default value behaves as
// "not overridden". ExtraHeaders is the exception: it is merged key-by-key
// across all sources.
func Resolve(fileCfg, envCfg, overrides *Config) (*Config, error) {
	cfg := Default()
	for _, layer := range []*Config{fileCfg, envCfg, overrides} {
		if layer != nil {
			cfg = merge(cfg, layer)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is the common path: optional file, then environment, then overrides.
func Load(configFile string, overrides *Config) (*Config, error) {
	var fileCfg *Config
	if configFile != "" {
		var err error
		fileCfg, err = FromFile(configFile)
		if err != nil {
			return nil, err
		}
	}

	envCfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	return Resolve(fileCfg, envCfg, overrides)
}

// Validate checks the fully merged configuration and reports every violated
// rule in a single ConfigurationError.
func (c *Config) Validate() error {
	var errs []string

	if c.APIKey == "" {
		errs = append(errs, "api_key is required")
	}

	if c.APIURL == "" {
		errs = append(errs, "api_url is required")
	} else if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid api_url format: %s", c.APIURL))
	}

	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.MaxRetries < 0 {
		errs = append(errs, "max_retries must be non-negative")
	}
	if c.RetryDelay < 0 {
		errs = append(errs, "retry_delay must be non-negative")
	}
	if c.RetryBackoffFactor < 1 {
		errs = append(errs, "retry_backoff_factor must be >= 1")
	}
	if c.ConnectionPoolSize <= 0 {
		errs = append(errs, "connection_pool_size must be positive")
	}
	if c.ConnectionPoolMaxSize < c.ConnectionPoolSize {
		errs = append(errs, "connection_pool_max_size must be >= connection_pool_size")
	}

	if c.RateLimitRequests != nil && *c.RateLimitRequests <= 0 {
		errs = append(errs, "rate_limit_requests must be positive if specified")
	}
	if c.RateLimitPeriod != nil && *c.RateLimitPeriod <= 0 {
		errs = append(errs, "rate_limit_period must be positive if specified")
	}
	if (c.RateLimitRequests == nil) != (c.RateLimitPeriod == nil) {
		errs = append(errs, "rate_limit_requests and rate_limit_period must both be specified or both be unset")
	}

	if _, ok := validLogLevels[strings.ToUpper(c.LogLevel)]; !ok {
		errs = append(errs, "log_level must be one of: DEBUG, INFO, WARNING, ERROR, CRITICAL")
	}

	if len(errs) > 0 {
		return netbird.NewConfigurationError("configuration validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// Options translates the configuration into client options for netbird.New.
func (c *Config) Options() []netbird.Option {
	opts := []netbird.Option{
		netbird.WithAuthToken(c.APIKey),
		netbird.WithTimeout(time.Duration(c.Timeout) * time.Second),
		netbird.WithRetryCount(c.MaxRetries),
		netbird.WithRetryDelay(time.Duration(c.RetryDelay * float64(time.Second))),
		netbird.WithBackoffFactor(c.RetryBackoffFactor),
		netbird.WithVerifySSL(c.VerifySSL),
		netbird.WithUserAgent(c.UserAgent),
		netbird.WithPoolSize(c.ConnectionPoolSize),
		netbird.WithPoolMaxSize(c.ConnectionPoolMaxSize),
	}
	for header, value := range c.ExtraHeaders {
		opts = append(opts, netbird.WithRequestHeader(header, value))
	}
	return opts
}

// merge overlays override onto base. A field is taken from override only
// when it differs from the built-in default; ExtraHeaders merges key-by-key.
func merge(base, override *Config) *Config {
	defaults := Default()
	out := *base
	out.ExtraHeaders = make(map[string]string, len(base.ExtraHeaders)+len(override.ExtraHeaders))
	for k, v := range base.ExtraHeaders {
		out.ExtraHeaders[k] = v
	}
	for k, v := range override.ExtraHeaders {
		out.ExtraHeaders[k] = v
	}

	if override.APIKey != defaults.APIKey {
		out.APIKey = override.APIKey
	}
	if override.APIURL != defaults.APIURL {
		out.APIURL = override.APIURL
	}
	if override.Timeout != defaults.Timeout {
		out.Timeout = override.Timeout
	}
	if override.MaxRetries != defaults.MaxRetries {
		out.MaxRetries = override.MaxRetries
	}
	if override.RetryDelay != defaults.RetryDelay {
		out.RetryDelay = override.RetryDelay
	}
	if override.RetryBackoffFactor != defaults.RetryBackoffFactor {
		out.RetryBackoffFactor = override.RetryBackoffFactor
	}
	if override.VerifySSL != defaults.VerifySSL {
		out.VerifySSL = override.VerifySSL
	}
	if override.UserAgent != defaults.UserAgent {
		out.UserAgent = override.UserAgent
	}
	if override.ConnectionPoolSize != defaults.ConnectionPoolSize {
		out.ConnectionPoolSize = override.ConnectionPoolSize
	}
	if override.ConnectionPoolMaxSize != defaults.ConnectionPoolMaxSize {
		out.ConnectionPoolMaxSize = override.ConnectionPoolMaxSize
	}
	if override.EnableLogging != defaults.EnableLogging {
		out.EnableLogging = override.EnableLogging
	}
	if override.LogLevel != defaults.LogLevel {
		out.LogLevel = override.LogLevel
	}
	if !equalIntPtr(override.RateLimitRequests, defaults.RateLimitRequests) {
		out.RateLimitRequests = override.RateLimitRequests
	}
	if !equalIntPtr(override.RateLimitPeriod, defaults.RateLimitPeriod) {
		out.RateLimitPeriod = override.RateLimitPeriod
	}

	return &out
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intEnv(dst *int, key string, errs *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid integer value for %s: %s", key, v))
		return
	}
	*dst = n
}

func floatEnv(dst *float64, key string, errs *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid numeric value for %s: %s", key, v))
		return
	}
	*dst = f
}

func boolEnv(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		*dst = true
	default:
		*dst = false
	}
}

func optionalIntEnv(dst **int, key string, errs *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid integer value for %s: %s", key, v))
		return
	}
	*dst = &n
}
