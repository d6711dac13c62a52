package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"opsmith/pkg/configuration"
	"opsmith/pkg/logging"
	"opsmith/pkg/router"
)

var (
	classifyExtension string
	classifyOverride  string
	classifyCompound  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Show how the model router would classify a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configuration.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		rt := router.NewRouter(cfg, logging.NewNopLogger())
		verdict := rt.Classify(router.Request{
			Text:       args[0],
			Extension:  classifyExtension,
			Override:   classifyOverride,
			IsCompound: classifyCompound,
		})

		cmd.Printf("type:       %s\n", verdict.Type)
		cmd.Printf("confidence: %.2f\n", verdict.Confidence)
		cmd.Printf("profile:    %s\n", verdict.SuggestedModel)
		cmd.Printf("reasoning:  %s\n", verdict.Reasoning)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyExtension, "extension", "e", "", "File-extension hint (e.g. .css)")
	classifyCmd.Flags().StringVar(&classifyOverride, "override", "", "Explicit profile override")
	classifyCmd.Flags().BoolVar(&classifyCompound, "compound", false, "Treat the text as a compound request")
}
