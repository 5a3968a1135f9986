package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	netbird "github.com/peteraglen/netbird-go-client"
)

// clearEnv unsets every NETBIRD_* variable the loader reads so tests are
// not affected by the caller's environment. t.Setenv registers the cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NETBIRD_API_KEY", "NETBIRD_API_URL", "NETBIRD_TIMEOUT",
		"NETBIRD_MAX_RETRIES", "NETBIRD_RETRY_DELAY", "NETBIRD_RETRY_BACKOFF_FACTOR",
		"NETBIRD_VERIFY_SSL", "NETBIRD_USER_AGENT", "NETBIRD_POOL_SIZE",
		"NETBIRD_POOL_MAX_SIZE", "NETBIRD_ENABLE_LOGGING", "NETBIRD_LOG_LEVEL",
		"NETBIRD_RATE_LIMIT_REQUESTS", "NETBIRD_RATE_LIMIT_PERIOD",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, "https://api.netbird.io", cfg.APIURL)
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1.0, cfg.RetryDelay)
	assert.Equal(t, 2.0, cfg.RetryBackoffFactor)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, 10, cfg.ConnectionPoolSize)
	assert.Equal(t, 20, cfg.ConnectionPoolMaxSize)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.EnableLogging)
	assert.Nil(t, cfg.RateLimitRequests)
	assert.NotNil(t, cfg.ExtraHeaders)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NETBIRD_API_KEY", "nbp_key")
	t.Setenv("NETBIRD_API_URL", "https://self-hosted.example.com")
	t.Setenv("NETBIRD_TIMEOUT", "60")
	t.Setenv("NETBIRD_MAX_RETRIES", "5")
	t.Setenv("NETBIRD_RETRY_DELAY", "0.5")
	t.Setenv("NETBIRD_VERIFY_SSL", "false")
	t.Setenv("NETBIRD_ENABLE_LOGGING", "yes")
	t.Setenv("NETBIRD_LOG_LEVEL", "DEBUG")
	t.Setenv("NETBIRD_RATE_LIMIT_REQUESTS", "100")
	t.Setenv("NETBIRD_RATE_LIMIT_PERIOD", "60")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "nbp_key", cfg.APIKey)
	assert.Equal(t, "https://self-hosted.example.com", cfg.APIURL)
	assert.Equal(t, 60, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 0.5, cfg.RetryDelay)
	assert.False(t, cfg.VerifySSL)
	assert.True(t, cfg.EnableLogging)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	require.NotNil(t, cfg.RateLimitRequests)
	assert.Equal(t, 100, *cfg.RateLimitRequests)
	require.NotNil(t, cfg.RateLimitPeriod)
	assert.Equal(t, 60, *cfg.RateLimitPeriod)
}

func TestFromEnv_MalformedValuesAggregated(t *testing.T) {
	clearEnv(t)
	t.Setenv("NETBIRD_TIMEOUT", "sixty")
	t.Setenv("NETBIRD_RETRY_DELAY", "fast")

	_, err := FromEnv()
	require.Error(t, err)

	var cfgErr *netbird.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "NETBIRD_TIMEOUT")
	assert.Contains(t, err.Error(), "NETBIRD_RETRY_DELAY")
}

func TestFromFile_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_key": "file-key",
		"timeout": 45,
		"extra_headers": {"X-Org": "acme"}
	}`), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 45, cfg.Timeout)
	assert.Equal(t, "acme", cfg.ExtraHeaders["X-Org"])
	// Unset fields keep the defaults.
	assert.Equal(t, "https://api.netbird.io", cfg.APIURL)
}

func TestFromFile_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key: yaml-key
max_retries: 7
log_level: WARNING
`), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-key", cfg.APIKey)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "WARNING", cfg.LogLevel)
}

func TestFromFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := FromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")

	badExt := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(badExt, []byte("x = 1"), 0o600))
	_, err = FromFile(badExt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported configuration file format")

	badJSON := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{not json"), 0o600))
	_, err = FromFile(badJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse configuration file")
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	fileCfg := Default()
	fileCfg.APIKey = "file-key"
	fileCfg.Timeout = 45

	envCfg := Default()
	envCfg.Timeout = 60
	envCfg.MaxRetries = 5

	overrides := Default()
	overrides.Timeout = 120

	cfg, err := Resolve(fileCfg, envCfg, overrides)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 120, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestResolve_DefaultValueDoesNotOverride(t *testing.T) {
	t.Parallel()

	envCfg := Default()
	envCfg.APIKey = "env-key"
	envCfg.Timeout = 60

	// An override explicitly set to the built-in default behaves as unset,
	// so the env layer's 60 survives.
	overrides := Default()
	overrides.Timeout = 30

	cfg, err := Resolve(nil, envCfg, overrides)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Timeout)
}

func TestResolve_ExtraHeadersMergedKeyByKey(t *testing.T) {
	t.Parallel()

	fileCfg := Default()
	fileCfg.APIKey = "k"
	fileCfg.ExtraHeaders = map[string]string{"X-Org": "acme", "X-File": "yes"}

	envCfg := Default()
	envCfg.ExtraHeaders = map[string]string{"X-Org": "globex"}

	cfg, err := Resolve(fileCfg, envCfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "globex", cfg.ExtraHeaders["X-Org"])
	assert.Equal(t, "yes", cfg.ExtraHeaders["X-File"])
}

func TestValidate_AggregatesViolations(t *testing.T) {
	t.Parallel()

	limit := -1
	cfg := &Config{
		APIKey:                "",
		APIURL:                "not a url",
		Timeout:               0,
		MaxRetries:            -1,
		RetryDelay:            -1,
		RetryBackoffFactor:    0.5,
		ConnectionPoolSize:    0,
		ConnectionPoolMaxSize: -1,
		RateLimitRequests:     &limit,
		LogLevel:              "LOUD",
	}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *netbird.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	for _, fragment := range []string{
		"api_key is required",
		"invalid api_url format",
		"timeout must be positive",
		"max_retries must be non-negative",
		"retry_delay must be non-negative",
		"retry_backoff_factor must be >= 1",
		"connection_pool_size must be positive",
		"connection_pool_max_size must be >= connection_pool_size",
		"rate_limit_requests must be positive if specified",
		"rate_limit_requests and rate_limit_period must both be specified or both be unset",
		"log_level must be one of",
	} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.APIKey = "nbp_key"
	require.NoError(t, cfg.Validate())

	requests, period := 100, 60
	cfg.RateLimitRequests = &requests
	cfg.RateLimitPeriod = &period
	require.NoError(t, cfg.Validate())

	cfg.LogLevel = "warning" // case-insensitive
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("NETBIRD_API_KEY", "env-key")
	t.Setenv("NETBIRD_TIMEOUT", "60")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": 45, "max_retries": 7}`), 0o600))

	overrides := Default()
	overrides.UserAgent = "cli/1.0"

	cfg, err := Load(path, overrides)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 60, cfg.Timeout) // env beats file
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "cli/1.0", cfg.UserAgent)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.APIKey = "nbp_key"
	cfg.ExtraHeaders = map[string]string{"X-Org": "acme"}

	opts := cfg.Options()
	assert.Len(t, opts, 10)
}
