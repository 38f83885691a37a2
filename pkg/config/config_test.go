package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Loyalteez.Timeout)
	assert.Equal(t, "https://api.loyalteez.app/loyalteez-api/manual-event", cfg.Loyalteez.APIURL)
	assert.Equal(t, "saas-demo.loyalteez.app", cfg.Loyalteez.Domain)
	assert.Empty(t, cfg.Loyalteez.BrandID)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "https://saas-demo.loyalteez.app"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvLoyalteezBrandID, "0xabc123def")
	t.Setenv(EnvLoyalteezTimeout, "5s")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvEventsRateLimitWindow, "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProd())
	assert.Equal(t, "0xabc123def", cfg.Loyalteez.BrandID)
	assert.Equal(t, 5*time.Second, cfg.Loyalteez.Timeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.EventsWindow)
}

func TestLoad_LegacyBrandIDFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLegacyBrandID, "  legacy-brand  ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-brand", cfg.Loyalteez.BrandID)
}

func TestLoad_PrimaryBrandIDWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLegacyBrandID, "legacy-brand")
	t.Setenv(EnvLoyalteezBrandID, "primary-brand")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-brand", cfg.Loyalteez.BrandID)
}

func TestLoad_InvalidSettingsAreCombined(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLoyalteezAPIURL, "ftp://example.com")
	t.Setenv(EnvLoyalteezTimeout, "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLoyalteezAPIURL)
	assert.Contains(t, err.Error(), EnvLoyalteezTimeout)
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAppEnv,
		EnvPort,
		EnvLogLevel,
		EnvLoyalteezBrandID,
		EnvLoyalteezAPIURL,
		EnvLoyalteezDomain,
		EnvLoyalteezSourceURL,
		EnvLoyalteezTimeout,
		EnvLegacyBrandID,
		EnvRedisURL,
		EnvEventsRateLimitWindow,
		EnvCORSAllowedOrigins,
	} {
		// Setenv registers the restore; the variable itself must be absent
		// so envconfig falls back to defaults.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
