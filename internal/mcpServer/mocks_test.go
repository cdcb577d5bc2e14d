package mcpServer

import (
	"context"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
)

type mockRetriever struct {
	hits       []corpusModel.RetrievalHit
	err        error
	lastK      int
	lastFilter *corpusModel.DocumentFilter
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error) {
	m.lastK = k
	m.lastFilter = filter
	return m.hits, m.err
}

type mockChat struct {
	result projectModel.AIResult
	err    error
}

func (m *mockChat) Chat(ctx context.Context, query string, onStep answer.StepFunc) (projectModel.AIResult, error) {
	return m.result, m.err
}

type mockProjects struct {
	items []projectModel.QuestionAnswer
	err   error
}

func (m *mockProjects) Answers(ctx context.Context, projectId string) ([]projectModel.QuestionAnswer, error) {
	return m.items, m.err
}

func fullPorts() (*Ports, *mockRetriever, *mockChat, *mockProjects) {
	r := &mockRetriever{}
	c := &mockChat{}
	p := &mockProjects{}
	return &Ports{Retriever: r, Chat: c, Projects: p, DefaultK: 5}, r, c, p
}
