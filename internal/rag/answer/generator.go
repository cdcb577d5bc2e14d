package answer

import (
	"context"
	"sort"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/llm"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

const (
	NoDocumentsText          = "No relevant documents found."
	InsufficientEvidenceText = "Insufficient evidence to answer from the indexed documents."
)

type HitRetriever interface {
	Retrieve(ctx context.Context, query string, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error)
}

type StepFunc func(step jobModel.InternalStatus)

type Generator struct {
	store         projectModel.ProjectStore
	retriever     HitRetriever
	provider      llm.Provider
	topK          int
	minSimilarity float64
	logger        *logger_i.Logger
}

func NewGenerator(store projectModel.ProjectStore, retriever HitRetriever, provider llm.Provider, topK int, minSimilarity float64) (*Generator, error) {
	if topK <= 0 {
		return nil, appErrors.NewConfigurationError("top_k must be > 0, got %d", topK)
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		return nil, appErrors.NewConfigurationError("min_similarity must be within [0,1], got %v", minSimilarity)
	}
	return &Generator{
		store:         store,
		retriever:     retriever,
		provider:      provider,
		topK:          topK,
		minSimilarity: minSimilarity,
		logger:        logger_i.NewLogger("Answer Generator"),
	}, nil
}

// Answer produces the AI result for one question under the evidence threshold.
func (g *Generator) Answer(ctx context.Context, question string, filter *corpusModel.DocumentFilter, onStep StepFunc) (projectModel.AIResult, error) {
	return g.answer(ctx, question, filter, true, onStep)
}

// Chat answers an ad-hoc query over the whole corpus. Only an empty retrieval stops
// the generation call.
func (g *Generator) Chat(ctx context.Context, query string, onStep StepFunc) (projectModel.AIResult, error) {
	return g.answer(ctx, query, nil, false, onStep)
}

func (g *Generator) answer(ctx context.Context, question string, filter *corpusModel.DocumentFilter, gated bool, onStep StepFunc) (projectModel.AIResult, error) {
	if onStep == nil {
		onStep = func(jobModel.InternalStatus) {}
	}

	onStep(jobModel.Retrieval)
	hits, err := g.retriever.Retrieve(ctx, question, g.topK, filter)
	if err != nil {
		return projectModel.AIResult{}, err
	}

	if len(hits) == 0 {
		return projectModel.AIResult{
			Status:     projectModel.AnswerMissingData,
			Text:       NoDocumentsText,
			Answerable: false,
			Confidence: 0,
			Citations:  []projectModel.Citation{},
		}, nil
	}

	confidence := Confidence(hits)
	citations := Citations(hits)
	if gated && confidence < g.minSimilarity {
		return projectModel.AIResult{
			Status:     projectModel.AnswerMissingData,
			Text:       InsufficientEvidenceText,
			Answerable: false,
			Confidence: confidence,
			Citations:  citations,
		}, nil
	}

	onStep(jobModel.LLMCall)
	start := time.Now()
	text, err := g.provider.Generate(ctx, BuildPrompt(question, contexts(hits)))
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(start))
	if err != nil {
		return projectModel.AIResult{}, appErrors.NewUpstreamError("generation", err)
	}

	return projectModel.AIResult{
		Status:     projectModel.AnswerGenerated,
		Text:       text,
		Answerable: true,
		Confidence: confidence,
		Citations:  citations,
	}, nil
}

// GenerateAnswers answers every question of the project in order_index order and leaves
// the project in REVIEW. An upstream failure on one question is recorded on that answer
// and the run goes on. A persistence failure stops the run and marks the project FAILED.
func (g *Generator) GenerateAnswers(ctx context.Context, projectId string, onStep StepFunc) (jobModel.GenerationReport, error) {
	if onStep == nil {
		onStep = func(jobModel.InternalStatus) {}
	}
	log := g.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("projectId", projectId)
	report := jobModel.GenerationReport{ProjectId: projectId}

	project, err := g.store.GetProject(ctx, projectId)
	if err != nil {
		return report, err
	}
	if err := g.store.SetProjectStatus(ctx, projectId, projectModel.ProjectGenerating); err != nil {
		return report, appErrors.NewPersistenceError("set project generating", err)
	}

	questions, err := g.store.ListQuestions(ctx, projectId)
	if err != nil {
		return report, g.abort(ctx, projectId, appErrors.NewPersistenceError("list questions", err))
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].OrderIndex < questions[j].OrderIndex })
	report.Total = len(questions)

	filter := project.DocumentFilter()
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return report, g.abort(ctx, projectId, err)
		}

		result, err := g.Answer(ctx, q.Text, filter, onStep)
		if err != nil {
			if !appErrors.IsUpstream(err) {
				return report, g.abort(ctx, projectId, err)
			}
			log.Warn("Question failed, continuing", "questionId", q.Id, "error", err)
			onStep(jobModel.AnswerWrite)
			if err := g.store.SaveAIError(ctx, q.Id, err.Error()); err != nil {
				return report, g.abort(ctx, projectId, appErrors.NewPersistenceError("save answer error", err))
			}
			report.Failed++
			report.FailedIds = append(report.FailedIds, q.Id)
			metrics.RecordAnswer("FAILED")
			continue
		}

		onStep(jobModel.AnswerWrite)
		if err := g.store.SaveAIResult(ctx, q.Id, result); err != nil {
			return report, g.abort(ctx, projectId, appErrors.NewPersistenceError("save answer", err))
		}
		metrics.RecordAnswer(string(result.Status))
		if result.Status == projectModel.AnswerGenerated {
			report.Generated++
		} else {
			report.MissingData++
		}
	}

	if err := g.store.SetProjectStatus(ctx, projectId, projectModel.ProjectReview); err != nil {
		return report, appErrors.NewPersistenceError("set project review", err)
	}
	log.Info("Generation finished", "total", report.Total, "generated", report.Generated,
		"missingData", report.MissingData, "failed", report.Failed)
	return report, nil
}

func (g *Generator) abort(ctx context.Context, projectId string, cause error) error {
	if err := g.store.SetProjectStatus(context.WithoutCancel(ctx), projectId, projectModel.ProjectFailed); err != nil {
		g.logger.Error("Could not mark project failed", "projectId", projectId, "error", err)
	}
	return cause
}
