package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"opsmith/pkg/filesystem"
	"opsmith/pkg/llm"
	"opsmith/pkg/logging"
	"opsmith/pkg/prompts"
)

// Handlers implements the write/edit/move/plan command handlers over the
// inference service and the filesystem. Generated output goes to disk; plan
// and diff previews go to out.
type Handlers struct {
	svc    *llm.Service
	logger *logging.Logger
	out    io.Writer
	dryRun bool
}

// NewHandlers wires the command handlers.
func NewHandlers(svc *llm.Service, logger *logging.Logger, out io.Writer, dryRun bool) *Handlers {
	return &Handlers{svc: svc, logger: logger, out: out, dryRun: dryRun}
}

// Write generates content for a new file and saves it.
func (h *Handlers) Write(ctx context.Context, target, description, profile string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("write operation has no target")
	}
	content, err := h.svc.Generate(ctx, prompts.WriteFilePrompt(target, description), profile)
	if err != nil {
		return "", fmt.Errorf("generation failed for %s: %w", target, err)
	}
	content = stripCodeFence(content)
	if h.dryRun {
		fmt.Fprintf(h.out, "[dry-run] would create %s (%d bytes)\n", target, len(content))
		return fmt.Sprintf("would create %s", target), nil
	}
	if err := filesystem.WriteFile(target, content); err != nil {
		return "", err
	}
	h.logger.Info("created %s (%d bytes)", target, len(content))
	return fmt.Sprintf("created %s", target), nil
}

// Edit applies an instruction to an existing file, previewing the diff
// before saving.
func (h *Handlers) Edit(ctx context.Context, target, description, profile string) (string, error) {
	current, err := filesystem.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("cannot edit %s: %w", target, err)
	}
	updated, err := h.svc.Generate(ctx, prompts.EditFilePrompt(target, description, current), profile)
	if err != nil {
		return "", fmt.Errorf("generation failed for %s: %w", target, err)
	}
	updated = stripCodeFence(updated)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(current, updated, false)
	dmp.DiffCleanupSemantic(diffs)
	fmt.Fprintf(h.out, "--- %s\n%s\n", target, dmp.DiffPrettyText(diffs))

	if h.dryRun {
		return fmt.Sprintf("would modify %s", target), nil
	}
	if err := filesystem.WriteFile(target, updated); err != nil {
		return "", err
	}
	h.logger.Info("modified %s", target)
	return fmt.Sprintf("modified %s", target), nil
}

// Move renames a file.
func (h *Handlers) Move(ctx context.Context, source, destination string) (string, error) {
	if source == "" || destination == "" {
		return "", fmt.Errorf("move operation needs a source and a destination")
	}
	if h.dryRun {
		fmt.Fprintf(h.out, "[dry-run] would move %s to %s\n", source, destination)
		return fmt.Sprintf("would move %s to %s", source, destination), nil
	}
	if err := filesystem.Move(source, destination); err != nil {
		return "", err
	}
	h.logger.Info("moved %s to %s", source, destination)
	return fmt.Sprintf("moved %s to %s", source, destination), nil
}

// Plan produces a numbered implementation plan and prints it. The workspace
// file listing goes into the prompt so the plan names real files; a listing
// failure degrades to an uncontextualized plan rather than failing the step.
func (h *Handlers) Plan(ctx context.Context, description, profile string) (string, error) {
	files, err := filesystem.ListWorkspaceFiles(".")
	if err != nil {
		h.logger.Warn("workspace listing unavailable: %v", err)
	}
	plan, err := h.svc.Generate(ctx, prompts.PlanPrompt(description, files), profile)
	if err != nil {
		return "", fmt.Errorf("planning failed: %w", err)
	}
	fmt.Fprintln(h.out, plan)
	return plan, nil
}

// stripCodeFence removes a wrapping markdown code fence if the model added
// one despite instructions.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return s
}
