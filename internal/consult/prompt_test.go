package consult

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAttachments(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("package a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("# notes"), 0644))

	files, err := LoadAttachments([]string{a, b})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, Attachment{Path: a, Content: "package a"}, files[0])
	assert.Equal(t, "# notes", files[1].Content)
}

func TestLoadAttachmentsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAttachments([]string{filepath.Join(dir, "missing.go")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	_, err = LoadAttachments([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestBuildPromptWithoutFiles(t *testing.T) {
	got, err := BuildPrompt("Review this", nil)
	require.NoError(t, err)
	assert.Equal(t, "Review this", got)
}

func TestBuildPromptWithFiles(t *testing.T) {
	got, err := BuildPrompt("Review this", []Attachment{
		{Path: "main.go", Content: "package main"},
		{Path: "README.md", Content: "hello"},
	})
	require.NoError(t, err)

	want := "Review this\n\n" + strings.Repeat("=", 80) + "\n\n## Attached Files\n\n" +
		"### main.go\n\n```\npackage main\n```\n\n" +
		"### README.md\n\n```\nhello\n```\n\n"
	assert.Equal(t, want, got)
}
