package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"opsmith/pkg/configuration"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured model profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configuration.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		defaultProfile := cfg.EffectiveDefaultProfile()
		for _, name := range names {
			p, _ := cfg.Profile(name)
			marker := " "
			if name == defaultProfile {
				marker = "*"
			}
			cmd.Printf("%s %-10s model=%s temperature=%.1f max_tokens=%d\n",
				marker, name, p.Model, p.Temperature, p.MaxTokens)
		}
		cmd.Printf("\nfallback profile: %s\n", cfg.Routing.FallbackProfile)
		cmd.Printf("confidence threshold: %.2f\n", cfg.Routing.ConfidenceThreshold)
		return nil
	},
}
