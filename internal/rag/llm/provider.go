package llm

import (
	"context"
	"errors"
	"strings"
)

type Provider interface {
	// Generate sends a fully built prompt and returns the trimmed completion.
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyCompletion = errors.New("generation returned no text")

// Finalize trims a completion and rejects an empty one.
func Finalize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
