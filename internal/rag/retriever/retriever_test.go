package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB/memoryDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	queryFunc func(ctx context.Context, q string) ([]float32, error)
	calls     int
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, q string) ([]float32, error) {
	m.calls++
	return m.queryFunc(ctx, q)
}

func (m *mockEmbedder) BatchEmbedding(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func fixedVector(v ...float32) *mockEmbedder {
	return &mockEmbedder{queryFunc: func(context.Context, string) ([]float32, error) { return v, nil }}
}

func seededIndex(t *testing.T) *memoryDB.Storage {
	t.Helper()
	idx := memoryDB.NewStorage(2)
	require.NoError(t, idx.Upsert(context.Background(), []corpusModel.IndexRecord{
		{Id: "a", ChunkId: "a", DocumentId: "d1", Text: "encryption", Vector: []float32{1, 0}},
		{Id: "b", ChunkId: "b", DocumentId: "d2", Text: "backups", Vector: []float32{0.6, 0.8}},
		{Id: "c", ChunkId: "c", DocumentId: "d2", Text: "vendors", Vector: []float32{0, 1}},
	}))
	return idx
}

func TestRetrieve_NearestFirstAndLimited(t *testing.T) {
	r := NewRetriever(fixedVector(1, 0), seededIndex(t))
	hits, err := r.Retrieve(context.Background(), "is data encrypted?", 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ChunkId)
	assert.Equal(t, "b", hits[1].ChunkId)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
}

func TestRetrieve_Filters(t *testing.T) {
	r := NewRetriever(fixedVector(1, 0), seededIndex(t))
	ctx := context.Background()

	hits, err := r.Retrieve(ctx, "q", 5, &corpusModel.DocumentFilter{DocumentIds: []string{"d2"}})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "d2", h.DocumentId)
	}

	none, err := r.Retrieve(ctx, "q", 5, &corpusModel.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, none, "an empty document filter never returns hits")
}

func TestRetrieve_RejectsNonPositiveK(t *testing.T) {
	emb := fixedVector(1, 0)
	r := NewRetriever(emb, seededIndex(t))
	for _, k := range []int{0, -3} {
		_, err := r.Retrieve(context.Background(), "q", k, nil)
		assert.True(t, appErrors.IsConfiguration(err), "k=%d", k)
	}
	assert.Zero(t, emb.calls, "no embedding call for a bad k")
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{queryFunc: func(context.Context, string) ([]float32, error) {
		return nil, errors.New("503")
	}}
	_, err := NewRetriever(emb, seededIndex(t)).Retrieve(context.Background(), "q", 3, nil)
	assert.True(t, appErrors.IsUpstream(err))
}
