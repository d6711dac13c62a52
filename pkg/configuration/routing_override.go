package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const routingOverrideFileName = "routing.yaml"

// routingOverrideFile mirrors RoutingPolicy with optional fields so only the
// keys the user sets are merged.
type routingOverrideFile struct {
	DefaultProfile           *string           `yaml:"default_profile"`
	FallbackProfile          *string           `yaml:"fallback_profile"`
	AutoDetect               *bool             `yaml:"auto_detect"`
	ConfidenceThreshold      *float64          `yaml:"confidence_threshold"`
	ForceAnalysisForCompound *bool             `yaml:"force_analysis_for_compound"`
	ExtensionCategories      map[string]string `yaml:"extension_categories"`
}

// mergeRoutingOverride layers routing.yaml from dir over the routing policy.
// A missing file is not an error.
func (c *Config) mergeRoutingOverride(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, routingOverrideFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read routing override: %w", err)
	}

	var o routingOverrideFile
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse routing override: %w", err)
	}

	if o.DefaultProfile != nil {
		c.Routing.DefaultProfile = *o.DefaultProfile
	}
	if o.FallbackProfile != nil {
		c.Routing.FallbackProfile = *o.FallbackProfile
	}
	if o.AutoDetect != nil {
		c.Routing.AutoDetect = *o.AutoDetect
	}
	if o.ConfidenceThreshold != nil {
		c.Routing.ConfidenceThreshold = *o.ConfidenceThreshold
	}
	if o.ForceAnalysisForCompound != nil {
		c.Routing.ForceAnalysisForCompound = *o.ForceAnalysisForCompound
	}
	if len(o.ExtensionCategories) > 0 {
		if c.Routing.ExtensionCategories == nil {
			c.Routing.ExtensionCategories = make(map[string]string)
		}
		for ext, cat := range o.ExtensionCategories {
			c.Routing.ExtensionCategories[ext] = cat
		}
	}
	return nil
}
