package consult

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alanmeadows/consultant/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is everything needed to start a consultation.
type Request struct {
	Prompt          string   `validate:"required"`
	Slug            string   `validate:"required,max=100"`
	Model           string   `validate:"required"`
	ReasoningEffort string   `validate:"omitempty,oneof=low medium high"`
	BaseURL         string   `validate:"omitempty,url"`
	APIKey          string
	Files           []string `validate:"dive,required"`
}

// Validate checks the request fields.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid consultation request: %w", err)
	}
	return nil
}

// ApplyPromptFile fills unset fields from a markdown prompt file. The
// frontmatter may carry slug, model, reasoning_effort and files; the body
// becomes the prompt when none was given. Values already set win.
func (r *Request) ApplyPromptFile(path string) error {
	doc, err := store.ReadDocument(path)
	if err != nil {
		return err
	}
	fm := doc.Frontmatter

	if r.Prompt == "" {
		r.Prompt = strings.TrimSpace(doc.Body)
	}
	if r.Slug == "" {
		r.Slug = store.GetString(fm, "slug")
	}
	if r.Model == "" {
		r.Model = store.GetString(fm, "model")
	}
	if r.ReasoningEffort == "" {
		r.ReasoningEffort = store.GetString(fm, "reasoning_effort")
	}
	if len(r.Files) == 0 {
		r.Files = store.GetStringSlice(fm, "files")
	}
	return nil
}
