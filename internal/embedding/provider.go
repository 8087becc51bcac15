// Package embedding produces text embedding vectors and the similarity
// math computed over them.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable is wrapped by provider errors when the embedding backend
// cannot be reached. Callers may degrade to exact-name matching.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Provider generates embedding vectors for text.
type Provider interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order.
	// Returns nil (not error) for empty input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
