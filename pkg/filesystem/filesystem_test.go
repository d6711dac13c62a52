package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "styles.css")

	require.NoError(t, WriteFile(path, "body {}"))
	assert.True(t, Exists(path))

	content, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "body {}", content)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "docs", "a.txt")
	require.NoError(t, WriteFile(src, "hello"))

	require.NoError(t, Move(src, dst))
	assert.False(t, Exists(src))
	assert.True(t, Exists(dst))
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Move(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "b.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestListWorkspaceFilesHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, ".gitignore"), "build/\n*.log\n"))
	require.NoError(t, WriteFile(filepath.Join(dir, "main.go"), "package main"))
	require.NoError(t, WriteFile(filepath.Join(dir, "debug.log"), "noise"))
	require.NoError(t, WriteFile(filepath.Join(dir, "build", "out.bin"), "bin"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, WriteFile(filepath.Join(dir, ".git", "HEAD"), "ref"))

	files, err := ListWorkspaceFiles(dir)
	require.NoError(t, err)

	assert.Contains(t, files, "main.go")
	assert.Contains(t, files, ".gitignore")
	assert.NotContains(t, files, "debug.log")
	assert.NotContains(t, files, filepath.Join("build", "out.bin"))
	assert.NotContains(t, files, filepath.Join(".git", "HEAD"))
}
