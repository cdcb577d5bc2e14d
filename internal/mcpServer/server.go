// Package mcpServer exposes corpus search, ad-hoc answers and project answers as MCP tools.
package mcpServer

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

var (
	ErrMissingRetriever = errors.New("mcp: retriever is required")
	ErrMissingChat      = errors.New("mcp: chat service is required")
	ErrMissingProjects  = errors.New("mcp: project answers are required")
)

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error)
}

type ChatService interface {
	Chat(ctx context.Context, query string, onStep answer.StepFunc) (projectModel.AIResult, error)
}

type ProjectAnswers interface {
	Answers(ctx context.Context, projectId string) ([]projectModel.QuestionAnswer, error)
}

type Ports struct {
	Retriever Retriever
	Chat      ChatService
	Projects  ProjectAnswers
	// DefaultK is used when a search asks for k <= 0.
	DefaultK int
}

func (p *Ports) Validate() error {
	switch {
	case p.Retriever == nil:
		return ErrMissingRetriever
	case p.Chat == nil:
		return ErrMissingChat
	case p.Projects == nil:
		return ErrMissingProjects
	}
	return nil
}

type Server struct {
	ports  *Ports
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if ports.DefaultK <= 0 {
		ports.DefaultK = 5
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(&mcp.Implementation{Name: "questionnaire-rag", Version: Version}, nil),
		logger: logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// RunStdio serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler is the streamable http endpoint mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
