package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedTemplates = []string{
	"attachments.md",
	"report.md",
}

func noUserOverrides(t *testing.T) {
	t.Helper()
	prev := userDir
	userDir = func() string { return "" }
	t.Cleanup(func() { userDir = prev })
}

func TestLoadAllTemplates(t *testing.T) {
	noUserOverrides(t)
	for _, name := range expectedTemplates {
		t.Run(name, func(t *testing.T) {
			tmpl, err := Load(name)
			require.NoError(t, err)
			assert.NotNil(t, tmpl)
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	noUserOverrides(t)
	_, err := Load("nonexistent-template.md")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "loading prompt template")
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.ElementsMatch(t, expectedTemplates, names)
}

func TestExecuteAttachmentsTemplate(t *testing.T) {
	noUserOverrides(t)
	type file struct{ Path, Content string }
	data := map[string]any{
		"Prompt":    "Review this",
		"Separator": "====",
		"Files":     []file{{Path: "main.go", Content: "package main"}},
	}

	result, err := Execute("attachments.md", data)
	require.NoError(t, err)
	assert.Contains(t, result, "Review this\n\n====\n\n## Attached Files\n\n")
	assert.Contains(t, result, "### main.go\n\n```\npackage main\n```\n\n")
}

func TestUserOverrideWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.md"), []byte("custom {{.Slug}}"), 0644))
	prev := userDir
	userDir = func() string { return dir }
	t.Cleanup(func() { userDir = prev })

	result, err := Execute("report.md", map[string]string{"Slug": "review"})
	require.NoError(t, err)
	assert.Equal(t, "custom review", result)
}
