package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Document represents a markdown file with YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// ReadDocument reads a markdown file with YAML frontmatter.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	var matter map[string]any
	body, err := frontmatter.Parse(strings.NewReader(string(data)), &matter)
	if err != nil {
		// Plain markdown is common for prompt files.
		slog.Debug("no frontmatter found in document", "path", path, "error", err)
		return &Document{
			Frontmatter: make(map[string]any),
			Body:        string(data),
		}, nil
	}
	if matter == nil {
		matter = make(map[string]any)
	}

	return &Document{
		Frontmatter: matter,
		Body:        string(body),
	}, nil
}

// WriteDocument writes a markdown file with YAML frontmatter.
func WriteDocument(path string, doc *Document) error {
	var buf bytes.Buffer

	if len(doc.Frontmatter) > 0 {
		buf.WriteString("---\n")
		fm, err := yaml.Marshal(doc.Frontmatter)
		if err != nil {
			return fmt.Errorf("marshaling frontmatter: %w", err)
		}
		buf.Write(fm)
		buf.WriteString("---\n\n")
	}

	buf.WriteString(doc.Body)

	return WriteFile(path, buf.Bytes())
}

// ReadText reads a whole file as a string with surrounding whitespace trimmed.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteFile atomically replaces path with data, creating parent directories.
// Readers observe either the previous content or the new content, never a
// partially written file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Exists checks if a file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
