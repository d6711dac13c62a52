package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanPromptIncludesWorkspaceFiles(t *testing.T) {
	prompt := PlanPrompt("add styling", []string{"index.html", "main.go"})
	assert.Contains(t, prompt, "add styling")
	assert.Contains(t, prompt, "index.html")
	assert.Contains(t, prompt, "main.go")
}

func TestPlanPromptWithoutFilesHasNoListing(t *testing.T) {
	prompt := PlanPrompt("add styling", nil)
	assert.NotContains(t, prompt, "Files in the workspace")
}

func TestAskPromptIncludesWorkspaceFiles(t *testing.T) {
	prompt := AskPrompt("where is the entry point", []string{"cmd/root.go"})
	assert.Contains(t, prompt, "where is the entry point")
	assert.Contains(t, prompt, "cmd/root.go")
}

func TestWorkspaceListingIsCapped(t *testing.T) {
	files := make([]string, workspaceFileLimit+50)
	for i := range files {
		files[i] = fmt.Sprintf("file%04d.txt", i)
	}
	prompt := AskPrompt("question", files)
	assert.Contains(t, prompt, fmt.Sprintf("file%04d.txt", workspaceFileLimit-1))
	assert.NotContains(t, prompt, fmt.Sprintf("file%04d.txt", workspaceFileLimit))
	assert.Equal(t, workspaceFileLimit, strings.Count(prompt, ".txt"))
}
