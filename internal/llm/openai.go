package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIConfig configures an OpenAIProvider.
type OpenAIConfig struct {
	// BaseURL points at an OpenAI-compatible proxy. Empty means api.openai.com.
	BaseURL string
	APIKey  string
}

// OpenAIProvider implements Provider on the OpenAI Responses API. It works
// against OpenAI directly or any compatible proxy (LiteLLM, Azure gateways).
type OpenAIProvider struct {
	client  openai.Client
	baseURL string
}

// NewOpenAIProvider creates a provider. Retries are disabled in the SDK
// because the completion strategies own retry policy.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		baseURL: base,
	}
}

// modelName strips the openai/ namespace when talking to OpenAI directly.
// Proxies route on the namespaced name, so it is kept when a base URL is set.
func (p *OpenAIProvider) modelName(model string) string {
	if p.baseURL == "" && strings.HasPrefix(strings.ToLower(model), "openai/") {
		return model[len("openai/"):]
	}
	return model
}

func (p *OpenAIProvider) params(req Request, background bool) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.modelName(req.Model)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
	}
	if background {
		params.Background = openai.Bool(true)
	}
	if req.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{
			Effort: shared.ReasoningEffort(req.ReasoningEffort),
		}
	}
	return params
}

func usageOf(resp *responses.Response) *Usage {
	if resp.Usage.InputTokens == 0 && resp.Usage.OutputTokens == 0 {
		return nil
	}
	return &Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
}

// Complete sends a blocking request and returns the output text.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	slog.Debug("sending completion", "model", req.Model, "prompt_len", len(req.Prompt))
	resp, err := p.client.Responses.New(ctx, p.params(req, false))
	if err != nil {
		return nil, fmt.Errorf("creating response: %w", err)
	}
	return &Response{
		ID:      resp.ID,
		Content: resp.OutputText(),
		Usage:   usageOf(resp),
	}, nil
}

// Submit starts a background job and returns its id.
func (p *OpenAIProvider) Submit(ctx context.Context, req Request) (string, error) {
	slog.Debug("submitting background job", "model", req.Model, "prompt_len", len(req.Prompt))
	resp, err := p.client.Responses.New(ctx, p.params(req, true))
	if err != nil {
		return "", fmt.Errorf("submitting background response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: provider returned no response id", ErrRequestFailed)
	}
	return resp.ID, nil
}

// Retrieve fetches the current state of a background job.
func (p *OpenAIProvider) Retrieve(ctx context.Context, jobID string) (*Job, error) {
	resp, err := p.client.Responses.Get(ctx, jobID, responses.ResponseGetParams{})
	if err != nil {
		return nil, fmt.Errorf("retrieving response %s: %w", jobID, err)
	}
	job := &Job{
		ID:     resp.ID,
		Status: JobStatus(resp.Status),
		Usage:  usageOf(resp),
	}
	if job.Status == JobCompleted || job.Status == "" {
		job.Content = resp.OutputText()
	}
	if resp.Error.Message != "" {
		job.Error = resp.Error.Message
		if resp.Error.Code != "" {
			job.Error = fmt.Sprintf("%s: %s", resp.Error.Code, resp.Error.Message)
		}
	}
	return job, nil
}

// ListModels returns the model ids the endpoint serves.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	iter := p.client.Models.ListAutoPaging(ctx)
	var ids []string
	for iter.Next() {
		ids = append(ids, iter.Current().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return ids, nil
}
