package prompts

import (
	"fmt"
	"strings"
)

// workspaceFileLimit caps how many paths a prompt carries so a large
// workspace cannot blow out the context window.
const workspaceFileLimit = 200

// WriteFilePrompt builds the generation prompt for creating a new file.
func WriteFilePrompt(target, description string) string {
	return fmt.Sprintf(`You are generating the complete content of a new file.

File path: %s
Instruction: %s

Return only the raw file content. No code fences, no commentary.`, target, description)
}

// EditFilePrompt builds the prompt for modifying an existing file.
func EditFilePrompt(target, description, currentContent string) string {
	return fmt.Sprintf(`You are editing an existing file. Apply the instruction and return the
complete updated file content. No code fences, no commentary.

File path: %s
Instruction: %s

Current content:
%s`, target, description, currentContent)
}

// PlanPrompt builds the prompt for producing a numbered implementation plan.
// workspaceFiles, when present, grounds the plan in the files that actually
// exist.
func PlanPrompt(description string, workspaceFiles []string) string {
	return fmt.Sprintf(`Produce a concise numbered implementation plan for the following request.
Each step should name the file it touches and what changes.

Request: %s%s`, description, workspaceSection(workspaceFiles))
}

// AskPrompt builds the prompt for an advisory question, with the workspace
// listing as context when available.
func AskPrompt(question string, workspaceFiles []string) string {
	return fmt.Sprintf("Answer the following developer question directly and concisely.\n\nQuestion: %s%s",
		question, workspaceSection(workspaceFiles))
}

// workspaceSection renders the file listing appended to context-aware
// prompts, or "" when there is nothing to list.
func workspaceSection(files []string) string {
	if len(files) == 0 {
		return ""
	}
	if len(files) > workspaceFileLimit {
		files = files[:workspaceFileLimit]
	}
	return "\n\nFiles in the workspace:\n" + strings.Join(files, "\n")
}
