package cmd

import (
	"github.com/spf13/cobra"

	"opsmith/pkg/compound"
	"opsmith/pkg/intent"
	"opsmith/pkg/logging"
)

var intentCmd = &cobra.Command{
	Use:   "intent [text]",
	Short: "Show the single-intent classification and parse for a text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		classifier := intent.NewClassifier()
		cmd.Printf("intent: %s\n", classifier.Classify(args[0]))

		parser := compound.NewParser(logging.NewNopLogger())
		ci := parser.Parse(args[0])
		cmd.Printf("compound: %v\n", ci.IsCompound)
		printPlan(cmd, ci)
	},
}
