// Package consult prepares a consultation for dispatch and renders its result.
package consult

import (
	"fmt"
	"os"
	"strings"

	"github.com/alanmeadows/consultant/internal/prompts"
)

// separator frames attachments and the printed response.
var separator = strings.Repeat("=", 80)

// Attachment is a file whose contents are appended to the prompt.
type Attachment struct {
	Path    string
	Content string
}

// LoadAttachments reads every path in order. Any path that is missing or
// is not a regular file fails the whole load.
func LoadAttachments(paths []string) ([]Attachment, error) {
	files := make([]Attachment, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %s", p)
			}
			return nil, fmt.Errorf("checking %s: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("not a file: %s", p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", p, err)
		}
		files = append(files, Attachment{Path: p, Content: string(data)})
	}
	return files, nil
}

// BuildPrompt returns the full text sent to the model: the prompt followed
// by each attachment under its own fenced header.
func BuildPrompt(prompt string, files []Attachment) (string, error) {
	if len(files) == 0 {
		return prompt, nil
	}
	return prompts.Execute("attachments.md", struct {
		Prompt    string
		Separator string
		Files     []Attachment
	}{prompt, separator, files})
}
