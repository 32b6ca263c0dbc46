package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
)

var (
	// ErrContextLimit means the prompt does not fit the model's context window.
	ErrContextLimit = errors.New("context limit exceeded")
	// ErrAuthentication means the provider rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrModelNotFound means the provider does not serve the requested model.
	ErrModelNotFound = errors.New("model not found")
	// ErrRequestFailed is the catch-all for other provider failures.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnknownModel means no context window is known for the model.
	ErrUnknownModel = errors.New("unknown model")
)

var permanentStatus = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusUnauthorized:        true,
	http.StatusForbidden:           true,
	http.StatusNotFound:            true,
	http.StatusUnprocessableEntity: true,
}

var transientStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusConflict:            true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var permanentKeywords = []string{
	"auth", "api key", "api_key", "unauthorized", "forbidden",
	"context length", "context_length", "context window", "maximum context",
	"token limit", "too long", "not found", "404", "invalid",
}

var transientKeywords = []string{
	"network", "timeout", "timed out", "connection", "429", "rate limit",
	"too many requests", "503", "service unavailable", "overloaded",
	"deadline exceeded", "temporarily",
}

var networkKeywords = []string{
	"network", "connection", "timeout", "timed out", "eof", "deadline exceeded",
}

// statusCode extracts the HTTP status from a provider error, or 0.
func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func containsAny(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsPermanent reports whether err must never be retried: bad credentials,
// context overflow, unknown model, or request validation failures.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrContextLimit) || errors.Is(err, ErrModelNotFound) {
		return true
	}
	if code := statusCode(err); code != 0 {
		return permanentStatus[code]
	}
	return containsAny(err.Error(), permanentKeywords)
}

// IsTransient reports whether err is worth retrying. Permanent errors are
// never transient even when their text mentions a retryable keyword.
func IsTransient(err error) bool {
	if err == nil || IsPermanent(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if code := statusCode(err); code != 0 {
		return transientStatus[code]
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return containsAny(err.Error(), transientKeywords)
}

// IsNetwork reports whether err looks like a connectivity failure rather
// than an answer from the provider.
func IsNetwork(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if statusCode(err) != 0 {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return containsAny(err.Error(), networkKeywords)
}

// Classify maps a provider error onto one of the package sentinels, keeping
// the original error in the chain. Errors already carrying a sentinel are
// returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range []error{ErrContextLimit, ErrAuthentication, ErrModelNotFound, ErrRequestFailed} {
		if errors.Is(err, s) {
			return err
		}
	}

	msg := strings.ToLower(err.Error())
	switch code := statusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrModelNotFound, err)
	case code == http.StatusBadRequest && containsAny(msg, []string{"context", "token", "too long"}):
		return fmt.Errorf("%w: %w", ErrContextLimit, err)
	case code != 0:
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	switch {
	case containsAny(msg, []string{"context length", "context_length", "context window", "maximum context", "token limit", "too many tokens"}):
		return fmt.Errorf("%w: %w", ErrContextLimit, err)
	case containsAny(msg, []string{"authentication", "unauthorized", "api key", "api_key", "invalid key"}):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case containsAny(msg, []string{"model not found", "does not exist", "404"}):
		return fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	return err
}

// Kind names the class of err for persisted session errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrContextLimit):
		return "context_limit"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrModelNotFound):
		return "model_not_found"
	case errors.Is(err, ErrRequestFailed):
		return "request_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "internal"
}
