package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed *.md
var builtinFS embed.FS

// userDir is swapped out in tests.
var userDir = func() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "consultant", "prompts")
}

// Load returns the prompt template for the given name.
// Checks user override at ~/.config/consultant/prompts/<name> first.
func Load(name string) (*template.Template, error) {
	if dir := userDir(); dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return template.New(name).Parse(string(data))
		}
	}

	data, err := builtinFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("loading prompt template %s: %w", name, err)
	}
	return template.New(name).Parse(string(data))
}

// Execute loads a template and executes it with data.
func Execute(name string, data any) (string, error) {
	tmpl, err := Load(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}

// List returns the names of all available prompt templates.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
