// Package bootstrap assembles the application from Settings. Every long lived
// collaborator is opened here once and closed by App.Close.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/corpus"
	"github.com/akolanti/QuestionnaireAPI/internal/data/redisStore"
	"github.com/akolanti/QuestionnaireAPI/internal/data/sqlStore"
	"github.com/akolanti/QuestionnaireAPI/internal/data/store"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/mcpServer"
	"github.com/akolanti/QuestionnaireAPI/internal/project"
	"github.com/akolanti/QuestionnaireAPI/internal/rag"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/evaluation"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/indexer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm/gemini"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm/openaiLLM"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/retriever"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/upstream"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB/pgvectorDB"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	BackendQdrant   = "qdrant"
	BackendMemory   = "memory"
	BackendPgvector = "pgvector"
)

type App struct {
	Settings *config.Settings

	Store     *sqlStore.Store
	Index     vectorDB.Index
	Embedder  embedding.Embedder
	LLM       llm.Provider
	Extractor ingest.Extractor

	Pipeline  *ingest.Pipeline
	Retriever *retriever.Retriever
	Generator *answer.Generator
	Evaluator *evaluation.Evaluator
	Projects  *project.Service
	Documents *corpus.Service

	JobStore    jobModel.JobStore
	Transcripts jobModel.TranscriptStore

	closers []func() error
	logger  *logger_i.Logger
}

// Build validates the settings and opens every collaborator. Everything it opens is
// released by Close.
func Build(ctx context.Context, s *config.Settings) (*App, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	app := &App{Settings: s, logger: logger_i.NewLogger("Bootstrap")}

	if err := app.build(ctx); err != nil {
		if closeErr := app.Close(); closeErr != nil {
			app.logger.Warn("cleanup after failed start", "error", closeErr)
		}
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	s := a.Settings

	st, err := sqlStore.Open(ctx, s.Database.Driver, s.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening relational store: %w", err)
	}
	a.Store = st
	a.closers = append(a.closers, st.Close)

	if a.Embedder, err = newEmbedder(ctx, s); err != nil {
		return err
	}
	if a.LLM, err = newProvider(ctx, s); err != nil {
		return err
	}
	if a.Index, err = newIndex(ctx, s, st); err != nil {
		return err
	}
	a.closers = append(a.closers, a.Index.Close)

	chunker, err := ingest.NewChunker(s.RAG.ChunkSize, s.RAG.ChunkOverlap)
	if err != nil {
		return err
	}
	a.Extractor = ingest.NewFileExtractor()
	a.Pipeline = ingest.NewPipeline(st, a.Extractor, chunker, indexer.NewIndexer(a.Embedder, a.Index, st))
	a.Retriever = retriever.NewRetriever(a.Embedder, a.Index)
	if a.Generator, err = answer.NewGenerator(st, a.Retriever, a.LLM, s.RAG.TopK, s.RAG.MinSimilarity); err != nil {
		return err
	}
	a.Evaluator = evaluation.NewEvaluator(st, st, a.Embedder)
	a.Projects = project.NewService(st, a.Extractor)
	a.Documents = corpus.NewService(st, s.StoragePath)

	a.JobStore, a.Transcripts = a.newJobStores(ctx)
	a.logger.Info("Application assembled",
		"database", s.Database.Driver, "vector", s.Vector.Backend,
		"embedding", s.Embedding.Provider, "llm", s.LLM.Provider)
	return nil
}

func (a *App) RAGService() rag.Service {
	return rag.NewService(a.Pipeline, a.Generator, a.Evaluator)
}

func (a *App) MCPServer() (*mcpServer.Server, error) {
	return mcpServer.NewServer(&mcpServer.Ports{
		Retriever: a.Retriever,
		Chat:      a.Generator,
		Projects:  a.Projects,
		DefaultK:  a.Settings.RAG.TopK,
	})
}

// Close releases collaborators in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newEmbedder(ctx context.Context, s *config.Settings) (embedding.Embedder, error) {
	guard := upstream.NewGuard("embedding", s.Upstream.RPS, s.Upstream.MaxRetries)
	switch s.Embedding.Provider {
	case ProviderGemini:
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, s.Embedding.Model, s.Google.APIKey, int32(s.Vector.Dimension), guard)
	case ProviderOpenAI:
		model := s.Embedding.Model
		if model == "" || model == config.GoogleEmbeddingModel {
			model = config.OpenAIEmbeddingModel
		}
		return openaiEmbedding.GetOpenAIEmbeddingClient(s.OpenAI.APIKey, s.OpenAI.BaseURL, model, s.Vector.Dimension, guard), nil
	}
	return nil, appErrors.NewConfigurationError("unknown embedding provider %q", s.Embedding.Provider)
}

func newProvider(ctx context.Context, s *config.Settings) (llm.Provider, error) {
	guard := upstream.NewGuard("generation", s.Upstream.RPS, s.Upstream.MaxRetries)
	switch s.LLM.Provider {
	case ProviderGemini:
		return gemini.GetGeminiClient(ctx, s.LLM.Model, s.Google.APIKey, s.LLM.Temperature, guard)
	case ProviderOpenAI:
		model := s.LLM.Model
		if model == "" || model == config.GeminiModelName {
			model = config.OpenAIModelName
		}
		return openaiLLM.GetOpenAIClient(s.OpenAI.APIKey, s.OpenAI.BaseURL, model, s.LLM.Temperature, guard), nil
	}
	return nil, appErrors.NewConfigurationError("unknown llm provider %q", s.LLM.Provider)
}

func newIndex(ctx context.Context, s *config.Settings, st *sqlStore.Store) (vectorDB.Index, error) {
	switch s.Vector.Backend {
	case BackendQdrant:
		return qdrantDB.NewQdrantIndex(ctx, qdrantDB.Options{
			Host:       s.Qdrant.Host,
			Port:       s.Qdrant.Port,
			APIKey:     s.Qdrant.APIKey,
			UseTLS:     s.Qdrant.UseTLS,
			PoolSize:   s.Qdrant.PoolSize,
			Collection: s.Vector.Collection,
			Dimension:  s.Vector.Dimension,
		})
	case BackendMemory:
		return memoryDB.NewStorage(s.Vector.Dimension), nil
	case BackendPgvector:
		table := pgTableName(s.Vector.Collection)
		if s.Vector.DSN == "" && st.Driver() == sqlStore.DriverPostgres {
			return pgvectorDB.New(ctx, st.DB(), table, s.Vector.Dimension)
		}
		return pgvectorDB.Open(ctx, s.Vector.DSN, table, s.Vector.Dimension)
	}
	return nil, appErrors.NewConfigurationError("unknown vector backend %q", s.Vector.Backend)
}

func pgTableName(collection string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(collection))
}

// newJobStores prefers redis and falls back to process memory when redis is disabled or
// unreachable, so a single node still runs without it.
func (a *App) newJobStores(ctx context.Context) (jobModel.JobStore, jobModel.TranscriptStore) {
	s, log := a.Settings, a.logger
	if s.Redis.Disabled {
		log.Info("Redis disabled, using in-memory job and transcript stores")
		return store.InitInMemoryJobStore(), store.InitInMemoryTranscriptStore()
	}
	opts := redisStore.Options{Addr: s.Redis.Addr, Password: s.Redis.Password}
	jobs, err := store.GetRedisJobStore(ctx, opts)
	if err != nil {
		log.Error("Redis stores are offline, using in-memory stores", "error", err)
		return store.InitInMemoryJobStore(), store.InitInMemoryTranscriptStore()
	}
	a.closers = append(a.closers, jobs.Close)
	transcripts, err := store.GetRedisTranscriptStore(ctx, opts)
	if err != nil {
		log.Error("Redis transcript store is offline, using in-memory transcripts", "error", err)
		return jobs, store.InitInMemoryTranscriptStore()
	}
	a.closers = append(a.closers, transcripts.Close)
	return jobs, transcripts
}
