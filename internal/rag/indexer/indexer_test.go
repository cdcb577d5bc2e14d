package indexer

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
	batchFunc func(ctx context.Context, texts []string) ([][]float32, error)
	calls     int
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	v, err := m.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	return m.batchFunc(ctx, texts)
}

func unitVectors(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, float32(i)}
	}
	return out, nil
}

type mockInvalidator struct {
	calls int
	err   error
}

func (m *mockInvalidator) MarkCorpusProjectsOutdated(context.Context) ([]string, error) {
	m.calls++
	return []string{"p1"}, m.err
}

func chunks(doc string, texts ...string) []corpusModel.Chunk {
	out := make([]corpusModel.Chunk, len(texts))
	for i, t := range texts {
		out[i] = corpusModel.Chunk{Id: doc + "-c" + string(rune('0'+i)), DocumentId: doc, ChunkIndex: i, Text: t}
	}
	return out
}

func TestIndexDocument_UpsertsAndInvalidates(t *testing.T) {
	index := memoryDB.NewStorage(2)
	emb := &mockEmbedder{batchFunc: unitVectors}
	inv := &mockInvalidator{}

	err := NewIndexer(emb, index, inv).IndexDocument(context.Background(), "d1", chunks("d1", "alpha", "beta", "gamma"))
	require.NoError(t, err)

	assert.Equal(t, 1, emb.calls, "all chunk texts go out in one batched call")
	assert.Equal(t, 3, index.Len())
	assert.Equal(t, 1, inv.calls)
}

func TestIndexDocument_ReindexReplacesOldVectors(t *testing.T) {
	index := memoryDB.NewStorage(2)
	ix := NewIndexer(&mockEmbedder{batchFunc: unitVectors}, index, &mockInvalidator{})
	ctx := context.Background()

	require.NoError(t, ix.IndexDocument(ctx, "d1", chunks("d1", "a", "b", "c")))
	require.NoError(t, ix.IndexDocument(ctx, "d2", chunks("d2", "x")))
	require.NoError(t, ix.IndexDocument(ctx, "d1", []corpusModel.Chunk{{Id: "new", DocumentId: "d1", Text: "only"}}))

	assert.Equal(t, 2, index.Len())
	hits, err := index.Query(ctx, []float32{1, 0}, 10, &corpusModel.DocumentFilter{DocumentIds: []string{"d1"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].ChunkId)
}

func TestIndexDocument_EmptyChunksStillInvalidates(t *testing.T) {
	emb := &mockEmbedder{batchFunc: unitVectors}
	inv := &mockInvalidator{}

	err := NewIndexer(emb, memoryDB.NewStorage(2), inv).IndexDocument(context.Background(), "d1", nil)
	require.NoError(t, err)
	assert.Zero(t, emb.calls)
	assert.Equal(t, 1, inv.calls)
}

func TestIndexDocument_Errors(t *testing.T) {
	ctx := context.Background()

	failing := &mockEmbedder{batchFunc: func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}}
	inv := &mockInvalidator{}
	err := NewIndexer(failing, memoryDB.NewStorage(2), inv).IndexDocument(ctx, "d1", chunks("d1", "a"))
	assert.True(t, appErrors.IsUpstream(err))
	assert.Zero(t, inv.calls, "nothing is invalidated when indexing failed")

	short := &mockEmbedder{batchFunc: func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}}
	err = NewIndexer(short, memoryDB.NewStorage(2), &mockInvalidator{}).IndexDocument(ctx, "d1", chunks("d1", "a", "b"))
	assert.True(t, appErrors.IsUpstream(err), "vector count mismatch is an upstream error")

	err = NewIndexer(&mockEmbedder{batchFunc: unitVectors}, memoryDB.NewStorage(2), &mockInvalidator{err: errors.New("db gone")}).
		IndexDocument(ctx, "d1", chunks("d1", "a"))
	assert.True(t, appErrors.IsPersistence(err))
}
