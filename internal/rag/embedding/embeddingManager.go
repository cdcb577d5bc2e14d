package embedding

import (
	"context"
	"fmt"
)

type Embedder interface {
	// GetEmbedding embeds a single search query.
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	// BatchEmbedding embeds document texts, one vector per input in input order.
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// CheckBatch verifies the provider answered with one vector per input.
func CheckBatch(texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("embedding %d is empty", i)
		}
	}
	return nil
}

// Batches cuts texts into consecutive slices of at most size entries.
func Batches(texts []string, size int) [][]string {
	if size <= 0 {
		size = len(texts)
	}
	var out [][]string
	for i := 0; i < len(texts); i += size {
		out = append(out, texts[i:min(i+size, len(texts))])
	}
	return out
}
