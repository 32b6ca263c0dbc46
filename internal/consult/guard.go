package consult

import (
	"errors"
	"fmt"
)

// ErrContextOverflow means the prompt does not fit in the model's context window.
var ErrContextOverflow = errors.New("input exceeds context limit")

// Budget summarises how a prompt fits in a context window.
type Budget struct {
	Tokens    int `json:"tokens"`
	Max       int `json:"max"`
	Available int `json:"available"`
	// Warn is set when the prompt leaves less than the reserved share free
	// for the response.
	Warn bool `json:"warn"`
}

// Percent is the share of the window the prompt uses.
func (b Budget) Percent() int {
	if b.Max <= 0 {
		return 0
	}
	return b.Tokens * 100 / b.Max
}

// CheckContext compares tokens against a context window, reserving
// reserve (0..1) of it for the response. Exceeding the window is an error;
// eating into the reserve only warns.
func CheckContext(tokens, window int, reserve float64) (Budget, error) {
	if reserve < 0 || reserve >= 1 {
		reserve = 0
	}
	b := Budget{
		Tokens:    tokens,
		Max:       window,
		Available: int(float64(window) * (1 - reserve)),
	}
	if tokens > window {
		return b, fmt.Errorf("%w: %d tokens against a limit of %d (over by %d)",
			ErrContextOverflow, tokens, window, tokens-window)
	}
	b.Warn = tokens > b.Available
	return b, nil
}
