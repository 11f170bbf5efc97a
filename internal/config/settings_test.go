package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), s)
	require.NoError(t, s.Validate())
}

func TestLoadSettingsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_trials: 10\noverlap_threshold: 0.05\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, 10, s.MaxTrials)
	require.Equal(t, 0.05, s.OverlapThreshold)
	require.Equal(t, 50, s.SafetyFactor, "unset keys keep their defaults")
	require.Equal(t, 5, s.NGram)
}

func TestLoadSettingsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_trials: 0\nparaphrase_probability: 2\n"), 0o644))

	_, err := LoadSettings(path)
	require.ErrorContains(t, err, "max_trials must be >= 1")
	require.ErrorContains(t, err, "paraphrase_probability must be within [0,1]")

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSettingsString(t *testing.T) {
	a := DefaultSettings()
	b := a
	b.OverlapThreshold = 0.03
	require.NotEqual(t, a.String(), b.String())
	require.Equal(t, a.String(), DefaultSettings().String())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("MAX_ITEMS_PER_TOPIC", "20")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("MAX_RECIPE_LINES", "not-a-number")
	t.Setenv("MAX_QUALITY_BYTES", "4096")

	cfg := Load()
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 20, cfg.MaxItemsPerTopic)
	require.Equal(t, 90*time.Second, cfg.CacheTTL)
	require.Equal(t, 50, cfg.MaxRecipeLines, "malformed values fall back to the default")
	require.Equal(t, time.Minute, cfg.GenerateWindow)
	require.Equal(t, int64(4096), cfg.MaxQualityBytes)
}
