package vectorDB

import (
	"context"
	"encoding/json"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

// Index is the vector index collaborator. It is opened once at startup, shared by the
// indexer and the retriever, and closed on shutdown.
type Index interface {
	// Upsert is keyed by record id, so replaying the same records is harmless.
	Upsert(ctx context.Context, records []corpusModel.IndexRecord) error
	// Query returns at most k hits ordered by ascending cosine distance.
	Query(ctx context.Context, vector []float32, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error)
	DeleteDocument(ctx context.Context, documentId string) error
	Close() error
}

// FilterIds is the list of document ids a query must match, or nil for no restriction.
// An empty filter becomes the sentinel id, which no stored record carries.
func FilterIds(filter *corpusModel.DocumentFilter) []string {
	if filter == nil {
		return nil
	}
	if filter.IsEmpty() {
		return []string{corpusModel.NoDocumentSentinel}
	}
	return filter.DocumentIds
}

func EncodeBBox(b *corpusModel.BBox) (string, bool) {
	if b == nil {
		return "", false
	}
	data, err := json.Marshal(b)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func DecodeBBox(s string) *corpusModel.BBox {
	if s == "" {
		return nil
	}
	var b corpusModel.BBox
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return nil
	}
	return &b
}
