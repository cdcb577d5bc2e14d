package memoryDB

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
)

// Storage is a brute force cosine index held in memory. It backs tests and the
// "memory" vector backend for single process setups.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]corpusModel.IndexRecord
}

func NewStorage(dimension int) *Storage {
	return &Storage{dimension: dimension, records: make(map[string]corpusModel.IndexRecord)}
}

func (s *Storage) Upsert(_ context.Context, records []corpusModel.IndexRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if s.dimension > 0 && len(r.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch for %s: got %d want %d", r.Id, len(r.Vector), s.dimension)
		}
	}
	for _, r := range records {
		r.Vector = slices.Clone(r.Vector)
		s.records[r.Id] = r
	}
	return nil
}

func (s *Storage) Query(_ context.Context, vector []float32, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be > 0, got %d", k)
	}
	var allowed map[string]bool
	if ids := vectorDB.FilterIds(filter); ids != nil {
		allowed = make(map[string]bool, len(ids))
		for _, id := range ids {
			allowed[id] = true
		}
	}

	s.mu.RLock()
	hits := make([]corpusModel.RetrievalHit, 0, len(s.records))
	for _, r := range s.records {
		if allowed != nil && !allowed[r.DocumentId] {
			continue
		}
		hits = append(hits, corpusModel.RetrievalHit{
			ChunkId:    r.ChunkId,
			DocumentId: r.DocumentId,
			Text:       r.Text,
			Page:       r.Page,
			BBox:       r.BBox,
			Distance:   1 - vectorDB.CosineSimilarity(r.Vector, vector),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ChunkId < hits[j].ChunkId
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *Storage) DeleteDocument(_ context.Context, documentId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if r.DocumentId == documentId {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Storage) Close() error { return nil }
