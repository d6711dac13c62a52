package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"opsmith/pkg/compound"
	"opsmith/pkg/configuration"
	"opsmith/pkg/executor"
	"opsmith/pkg/filesystem"
	"opsmith/pkg/handlers"
	"opsmith/pkg/llm"
	"opsmith/pkg/logging"
	"opsmith/pkg/prompts"
	"opsmith/pkg/router"
	"opsmith/pkg/types"
)

var (
	modelOverride string
	dryRun        bool
	skipPrompt    bool
	verbose       bool
)

var doCmd = &cobra.Command{
	Use:   "do [request]",
	Short: "Parse a natural-language request and execute the resulting operations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := args[0]

		logger, err := logging.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer logger.Close()

		cfg, err := configuration.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if skipPrompt {
			cfg.SkipPrompt = true
		}

		parser := compound.NewParser(logger)
		ci := parser.Parse(request)

		if len(ci.Operations) == 0 {
			// Pure question: answer it directly, nothing to schedule.
			return runAsk(cmd, cfg, logger, request)
		}

		printPlan(cmd, ci)
		if !cfg.SkipPrompt && !dryRun && !confirm(cmd, "Proceed?") {
			cmd.Println("Aborted.")
			return nil
		}

		rt := router.NewRouter(cfg, logger)
		svc := llm.NewService(llm.NewOllamaClient(), cfg, rt.Telemetry(), logger)
		h := handlers.NewHandlers(svc, logger, cmd.OutOrStdout(), dryRun)
		engine := executor.NewEngine(h, rt, filesystem.Exists, logger)
		if modelOverride != "" {
			engine.SetProfileOverride(modelOverride)
		}

		// A user interrupt aborts the whole run; there is no resume.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := engine.Execute(ctx, ci)
		if err != nil {
			return err
		}
		cmd.Print(result.Summary())
		if !result.Success {
			return fmt.Errorf("run finished with status %s", result.Status)
		}
		return nil
	},
}

func runAsk(cmd *cobra.Command, cfg *configuration.Config, logger *logging.Logger, request string) error {
	rt := router.NewRouter(cfg, logger)
	verdict := rt.Classify(router.Request{Text: request, Override: modelOverride})
	svc := llm.NewService(llm.NewOllamaClient(), cfg, rt.Telemetry(), logger)

	files, err := filesystem.ListWorkspaceFiles(".")
	if err != nil {
		logger.Warn("workspace listing unavailable: %v", err)
	}
	answer, err := svc.Generate(cmd.Context(), prompts.AskPrompt(request, files), verdict.SuggestedModel)
	if err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	cmd.Println(answer)
	return nil
}

func printPlan(cmd *cobra.Command, ci types.CompoundIntent) {
	if ci.IsCompound {
		cmd.Printf("Compound request: %d operations\n", len(ci.Operations))
	}
	for i, op := range ci.Operations {
		deps := ""
		if len(op.Dependencies) > 0 {
			deps = " (after " + strings.Join(op.Dependencies, ", ") + ")"
		}
		cmd.Printf("  %d. %s %s%s\n", i+1, op.Intent, op.Target, deps)
	}
	for _, w := range ci.Context.Warnings {
		cmd.Printf("  note: %s\n", w)
	}
}

// confirm asks for a yes/no answer; non-terminal stdin auto-confirms so
// piped invocations don't hang.
func confirm(cmd *cobra.Command, prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		cmd.Printf("%s (yes/no): ", prompt)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(response)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
	}
}

func init() {
	doCmd.Flags().StringVarP(&modelOverride, "model", "m", "", "Force a specific model profile for every operation")
	doCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without touching files")
	doCmd.Flags().BoolVar(&skipPrompt, "skip-prompt", false, "Do not ask for confirmation")
	doCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo log output to stderr")
}
