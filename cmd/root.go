package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opsmith",
	Short: "Natural-language front end for file operations",
	Long: `Opsmith turns a free-form request like

  "in the blog folder create a css file and modify index.html to link it"

into typed file operations, orders them so producers run before consumers,
executes them sequentially with partial-failure handling, and routes each
step to the backend model profile best suited to it on a local inference
server.

Available commands:
  do        - Parse a request and execute the resulting operations
  classify  - Show how the model router would classify a text
  intent    - Show the single-intent classification for a text
  models    - List model profiles and their telemetry
  version   - Print the version`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(doCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(intentCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}
