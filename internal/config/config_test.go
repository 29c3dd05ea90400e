package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/cw-dashboard/internal/config"
)

// clearEnv blanks every variable Load reads so each test starts from the
// documented defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_PORT", "CW_SITE", "CW_COMPANY", "CW_PUBLIC_KEY", "CW_PRIVATE_KEY",
		"CW_CLIENT_ID", "HTTPS_PROXY", "https_proxy", "CW_VERIFY_SSL", "CW_PAGE_SIZE",
		"CW_TIMEOUT", "STALE_CUTOFF_HOURS", "TREND_WINDOW_DAYS", "CLOSED_STATUSES",
		"EXCLUDED_PRIORITIES", "SEVERITY_CRITICAL_HOURS", "SEVERITY_WARNING_HOURS",
		"TOP_OLDEST_COUNT", "RATE_LIMIT_ENABLED", "LOG_LEVEL", "LOG_FORMAT",
		"METRICS_ENABLED", "APP_ENV",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "na.myconnectwise.net", cfg.Upstream.Site)
	assert.Equal(t, 1000, cfg.Upstream.PageSize)
	assert.Equal(t, 60*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Upstream.VerifySSL)
	assert.Equal(t, 8, cfg.Dashboard.StaleCutoffHours)
	assert.Equal(t, 7, cfg.Dashboard.TrendWindowDays)
	assert.Equal(t, 48.0, cfg.Dashboard.CriticalHours)
	assert.Equal(t, 24.0, cfg.Dashboard.WarningHours)
	assert.Contains(t, cfg.Dashboard.ClosedStatuses, "Closed")
	assert.Contains(t, cfg.Dashboard.ClosedStatuses, "Closed - No Response")
	assert.Empty(t, cfg.Dashboard.ExcludedPriorities)
	assert.False(t, cfg.Configured())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CW_SITE", "eu.myconnectwise.net")
	t.Setenv("CW_COMPANY", "acme")
	t.Setenv("CW_PUBLIC_KEY", "pub")
	t.Setenv("CW_PRIVATE_KEY", "priv")
	t.Setenv("CW_CLIENT_ID", "client-123")
	t.Setenv("HTTPS_PROXY", "http://proxy.internal:3128")
	t.Setenv("CW_VERIFY_SSL", "false")
	t.Setenv("STALE_CUTOFF_HOURS", "24")
	t.Setenv("EXCLUDED_PRIORITIES", "Low, Informational ,")
	t.Setenv("CLOSED_STATUSES", "Done,Archived")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Configured())
	assert.Equal(t, "eu.myconnectwise.net", cfg.Upstream.Site)
	assert.Equal(t, "http://proxy.internal:3128", cfg.Upstream.Proxy)
	assert.False(t, cfg.Upstream.VerifySSL)
	assert.Equal(t, 24, cfg.Dashboard.StaleCutoffHours)
	assert.Equal(t, []string{"Low", "Informational"}, cfg.Dashboard.ExcludedPriorities, "csv entries trimmed, empties dropped")
	assert.Equal(t, []string{"Done", "Archived"}, cfg.Dashboard.ClosedStatuses)
}

func TestLoad_MissingCredentialsIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err, "the engine must start and report configured=false instead")
	assert.False(t, cfg.Configured())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("rejects inverted severity tiers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SEVERITY_CRITICAL_HOURS", "24")
		t.Setenv("SEVERITY_WARNING_HOURS", "48")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SEVERITY_WARNING_HOURS")
	})

	t.Run("rejects non-positive page size", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CW_PAGE_SIZE", "0")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CW_PAGE_SIZE")
	})

	t.Run("rejects zero-day trend window", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TREND_WINDOW_DAYS", "0")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TREND_WINDOW_DAYS")
	})
}

func TestConfig_StringRedactsSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("CW_COMPANY", "acme")
	t.Setenv("CW_PUBLIC_KEY", "public-key-value")
	t.Setenv("CW_PRIVATE_KEY", "private-key-value")
	t.Setenv("CW_CLIENT_ID", "client-id-value")

	cfg, err := config.Load()
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "public-key-value")
	assert.NotContains(t, s, "private-key-value")
	assert.NotContains(t, s, "client-id-value")
	assert.Contains(t, s, "acme")
}
