package mcpServer

import (
	"context"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SearchInput struct {
	Query       string   `json:"query" jsonschema:"the text to search the indexed documents for"`
	K           int      `json:"k,omitempty" jsonschema:"number of chunks to return"`
	DocumentIds []string `json:"document_ids,omitempty" jsonschema:"restrict the search to these document ids"`
}

type SearchOutput struct {
	Hits  []corpusModel.RetrievalHit `json:"hits"`
	Count int                        `json:"count"`
}

type AskInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the corpus"`
}

type ProjectAnswersInput struct {
	ProjectId string `json:"project_id" jsonschema:"the questionnaire project id"`
}

type ProjectAnswersOutput struct {
	ProjectId string                        `json:"project_id"`
	Items     []projectModel.QuestionAnswer `json:"items"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_corpus",
		Description: "Nearest chunks of the indexed documents for a query",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_corpus",
		Description: "Answer a question from the indexed documents with citations and a confidence",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "project_answers",
		Description: "Questions of a questionnaire project with their answers and review status",
	}, s.handleProjectAnswers)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k <= 0 {
		k = s.ports.DefaultK
	}
	var filter *corpusModel.DocumentFilter
	if input.DocumentIds != nil {
		filter = &corpusModel.DocumentFilter{DocumentIds: input.DocumentIds}
	}

	hits, err := s.ports.Retriever.Retrieve(ctx, input.Query, k, filter)
	if err != nil {
		s.logger.Warn("search_corpus failed", "error", err)
		return nil, SearchOutput{}, err
	}
	if hits == nil {
		hits = []corpusModel.RetrievalHit{}
	}
	return nil, SearchOutput{Hits: hits, Count: len(hits)}, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, jobModel.ChatAnswer, error) {
	res, err := s.ports.Chat.Chat(ctx, input.Query, nil)
	if err != nil {
		s.logger.Warn("ask_corpus failed", "error", err)
		return nil, jobModel.ChatAnswer{}, err
	}
	return nil, jobModel.ChatAnswer{
		Query:      input.Query,
		AnswerText: res.Text,
		Answerable: res.Answerable,
		Confidence: res.Confidence,
		Citations:  res.Citations,
	}, nil
}

func (s *Server) handleProjectAnswers(ctx context.Context, _ *mcp.CallToolRequest, input ProjectAnswersInput) (*mcp.CallToolResult, ProjectAnswersOutput, error) {
	items, err := s.ports.Projects.Answers(ctx, input.ProjectId)
	if err != nil {
		return nil, ProjectAnswersOutput{}, err
	}
	if items == nil {
		items = []projectModel.QuestionAnswer{}
	}
	return nil, ProjectAnswersOutput{ProjectId: input.ProjectId, Items: items}, nil
}
