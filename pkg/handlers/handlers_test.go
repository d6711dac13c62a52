package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsmith/pkg/configuration"
	"opsmith/pkg/llm"
	"opsmith/pkg/logging"
	"opsmith/pkg/router"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeClient) Infer(_ context.Context, prompt string, _ configuration.ModelProfile) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestHandlers(client llm.Client, dryRun bool) (*Handlers, *bytes.Buffer) {
	out := &bytes.Buffer{}
	svc := llm.NewService(client, configuration.NewConfig(), router.NewTelemetry(), logging.NewNopLogger())
	return NewHandlers(svc, logging.NewNopLogger(), out, dryRun), out
}

func TestWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "site", "styles.css")
	h, _ := newTestHandlers(&fakeClient{response: "body { margin: 0; }"}, false)

	result, err := h.Write(context.Background(), target, "create a stylesheet", "code")
	require.NoError(t, err)
	assert.Contains(t, result, "created")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "body { margin: 0; }", string(data))
}

func TestWriteStripsCodeFence(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "styles.css")
	h, _ := newTestHandlers(&fakeClient{response: "```css\nbody {}\n```"}, false)

	_, err := h.Write(context.Background(), target, "create a stylesheet", "code")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(data))
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "styles.css")
	h, out := newTestHandlers(&fakeClient{response: "body {}"}, true)

	result, err := h.Write(context.Background(), target, "create a stylesheet", "code")
	require.NoError(t, err)
	assert.Contains(t, result, "would create")
	assert.Contains(t, out.String(), "dry-run")
	assert.NoFileExists(t, target)
}

func TestWriteGenerationErrorPropagates(t *testing.T) {
	h, _ := newTestHandlers(&fakeClient{err: fmt.Errorf("connection refused")}, false)

	_, err := h.Write(context.Background(), "styles.css", "create", "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestEditModifiesExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(target, []byte("<html></html>"), 0644))

	updated := `<html><link rel="stylesheet" href="styles.css"></html>`
	h, out := newTestHandlers(&fakeClient{response: updated}, false)

	result, err := h.Edit(context.Background(), target, "link styles.css", "code")
	require.NoError(t, err)
	assert.Contains(t, result, "modified")
	assert.Contains(t, out.String(), target, "diff preview names the file")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, updated, string(data))
}

func TestEditMissingFileFails(t *testing.T) {
	h, _ := newTestHandlers(&fakeClient{response: "x"}, false)

	_, err := h.Edit(context.Background(), filepath.Join(t.TempDir(), "missing.html"), "edit", "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot edit")
}

func TestMoveHandler(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	h, _ := newTestHandlers(&fakeClient{}, false)
	result, err := h.Move(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Contains(t, result, "moved")
	assert.FileExists(t, dst)
}

func TestPlanPrintsPlan(t *testing.T) {
	h, out := newTestHandlers(&fakeClient{response: "1. create styles.css\n2. link it"}, false)

	plan, err := h.Plan(context.Background(), "add styling", "analysis")
	require.NoError(t, err)
	assert.Contains(t, plan, "styles.css")
	assert.Contains(t, out.String(), "styles.css")
}

func TestPlanPromptCarriesWorkspaceListing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644))
	t.Chdir(dir)

	client := &fakeClient{response: "1. edit index.html"}
	h, _ := newTestHandlers(client, false)

	_, err := h.Plan(context.Background(), "add styling", "analysis")
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "index.html")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", "plain text", "plain text"},
		{"fenced with language", "```go\ncode\n```", "code"},
		{"fenced without language", "```\ncode\n```", "code"},
		{"unterminated fence left alone", "```go\ncode", "```go\ncode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
