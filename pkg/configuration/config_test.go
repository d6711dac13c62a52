package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ConfigVersion, cfg.Version)
	for _, name := range []string{"code", "analysis", "creative", "fallback"} {
		_, ok := cfg.Profiles[name]
		assert.True(t, ok, "default profile %s missing", name)
	}
	assert.Equal(t, "code", cfg.Routing.DefaultProfile)
	assert.Equal(t, "fallback", cfg.Routing.FallbackProfile)
	assert.True(t, cfg.Routing.AutoDetect)
	assert.InDelta(t, 0.4, cfg.Routing.ConfidenceThreshold, 0.001)
}

func TestApplyDefaultsFillsGaps(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, ConfigVersion, cfg.Version)
	assert.NotEmpty(t, cfg.Profiles)
	assert.Equal(t, "code", cfg.Routing.DefaultProfile)
	assert.Equal(t, "fallback", cfg.Routing.FallbackProfile)
	assert.NotZero(t, cfg.Routing.ConfidenceThreshold)
}

func TestProfileTemperatureOverride(t *testing.T) {
	cfg := NewConfig()
	cfg.Overrides.ProfileTemperature = map[string]float64{"code": 0.7}

	p, ok := cfg.Profile("code")
	require.True(t, ok)
	assert.Equal(t, 0.7, p.Temperature)

	// Other profiles keep their configured temperature.
	p, ok = cfg.Profile("creative")
	require.True(t, ok)
	assert.Equal(t, 0.9, p.Temperature)
}

func TestProfileUnknown(t *testing.T) {
	cfg := NewConfig()
	_, ok := cfg.Profile("nope")
	assert.False(t, ok)
}

func TestEffectiveDefaultProfile(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "code", cfg.EffectiveDefaultProfile())

	cfg.Overrides.DefaultProfile = "analysis"
	assert.Equal(t, "analysis", cfg.EffectiveDefaultProfile())
}

func TestMergeRoutingOverride(t *testing.T) {
	dir := t.TempDir()
	override := `
default_profile: analysis
confidence_threshold: 0.6
extension_categories:
  .scss: code
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routing.yaml"), []byte(override), 0644))

	cfg := NewConfig()
	require.NoError(t, cfg.mergeRoutingOverride(dir))

	assert.Equal(t, "analysis", cfg.Routing.DefaultProfile)
	assert.InDelta(t, 0.6, cfg.Routing.ConfidenceThreshold, 0.001)
	assert.Equal(t, "code", cfg.Routing.ExtensionCategories[".scss"])
	// Untouched keys keep their defaults.
	assert.Equal(t, "fallback", cfg.Routing.FallbackProfile)
	assert.True(t, cfg.Routing.AutoDetect)
}

func TestMergeRoutingOverrideMissingFileIsFine(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.mergeRoutingOverride(t.TempDir()))
	assert.Equal(t, "code", cfg.Routing.DefaultProfile)
}

func TestMergeRoutingOverrideBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routing.yaml"), []byte("{not yaml"), 0644))

	cfg := NewConfig()
	require.Error(t, cfg.mergeRoutingOverride(dir))
}
