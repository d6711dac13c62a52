package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigVersion  = "1.0"
	ConfigDirName  = ".opsmith"
	ConfigFileName = "config.json"
)

// ModelProfile is one named backend configuration on the inference server.
type ModelProfile struct {
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Endpoint    string   `json:"endpoint,omitempty"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	UseCases    []string `json:"use_cases,omitempty"`
}

// RoutingPolicy controls how the router picks a profile.
type RoutingPolicy struct {
	DefaultProfile           string            `json:"default_profile"`
	FallbackProfile          string            `json:"fallback_profile"`
	AutoDetect               bool              `json:"auto_detect"`
	ConfidenceThreshold      float64           `json:"confidence_threshold"`
	ForceAnalysisForCompound bool              `json:"force_analysis_for_compound"`
	ExtensionCategories      map[string]string `json:"extension_categories,omitempty"`
}

// UserOverrides holds optional user preferences layered over the policy.
type UserOverrides struct {
	DefaultProfile     string             `json:"default_profile,omitempty"`
	ExtensionProfiles  map[string]string  `json:"extension_profiles,omitempty"`
	ProfileTemperature map[string]float64 `json:"profile_temperature,omitempty"`
}

// Config is the unified application configuration, persisted as JSON under
// ~/.opsmith.
type Config struct {
	Version   string                  `json:"version"`
	Profiles  map[string]ModelProfile `json:"profiles"`
	Routing   RoutingPolicy           `json:"routing"`
	Overrides UserOverrides           `json:"overrides,omitempty"`

	// SkipPrompt disables interactive confirmation for non-interactive runs.
	SkipPrompt bool `json:"skip_prompt,omitempty"`
}

// NewConfig creates a configuration with sensible defaults for a local
// ollama-style inference server.
func NewConfig() *Config {
	return &Config{
		Version: ConfigVersion,
		Profiles: map[string]ModelProfile{
			"code": {
				Name:        "code",
				Model:       "qwen3-coder:30b",
				Temperature: 0.2,
				MaxTokens:   8192,
				UseCases:    []string{"code", "compound"},
			},
			"analysis": {
				Name:        "analysis",
				Model:       "deepseek-r1:14b",
				Temperature: 0.4,
				MaxTokens:   8192,
				UseCases:    []string{"analysis", "mixed"},
			},
			"creative": {
				Name:        "creative",
				Model:       "llama3.1:8b",
				Temperature: 0.9,
				MaxTokens:   4096,
				UseCases:    []string{"creative"},
			},
			"fallback": {
				Name:        "fallback",
				Model:       "llama3.1:8b",
				Temperature: 0.5,
				MaxTokens:   4096,
			},
		},
		Routing: RoutingPolicy{
			DefaultProfile:           "code",
			FallbackProfile:          "fallback",
			AutoDetect:               true,
			ConfidenceThreshold:      0.4,
			ForceAnalysisForCompound: true,
		},
	}
}

// GetConfigDir returns the configuration directory path, creating it when
// missing.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// GetConfigPath returns the full path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// Load loads the configuration from file, falling back to defaults when no
// file exists. A routing.yaml next to the config file, if present, is merged
// over the routing policy.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	var config *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config = NewConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		config = &Config{}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		config.applyDefaults()
	}

	if err := config.mergeRoutingOverride(filepath.Dir(configPath)); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills gaps in a loaded config so older files keep working.
func (c *Config) applyDefaults() {
	defaults := NewConfig()
	if c.Version == "" {
		c.Version = ConfigVersion
	}
	if c.Profiles == nil {
		c.Profiles = defaults.Profiles
	}
	if c.Routing.DefaultProfile == "" {
		c.Routing.DefaultProfile = defaults.Routing.DefaultProfile
	}
	if c.Routing.FallbackProfile == "" {
		c.Routing.FallbackProfile = defaults.Routing.FallbackProfile
	}
	if c.Routing.ConfidenceThreshold == 0 {
		c.Routing.ConfidenceThreshold = defaults.Routing.ConfidenceThreshold
	}
}

// Save saves the configuration to file.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	c.Version = ConfigVersion
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath, data, 0600)
}

// Profile returns the named profile and whether it exists, with any user
// temperature preference applied.
func (c *Config) Profile(name string) (ModelProfile, bool) {
	p, ok := c.Profiles[name]
	if !ok {
		return ModelProfile{}, false
	}
	if t, ok := c.Overrides.ProfileTemperature[name]; ok {
		p.Temperature = t
	}
	return p, true
}

// EffectiveDefaultProfile returns the user default if set, else the policy
// default.
func (c *Config) EffectiveDefaultProfile() string {
	if c.Overrides.DefaultProfile != "" {
		return c.Overrides.DefaultProfile
	}
	return c.Routing.DefaultProfile
}
