package evaluation

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/embedding"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

type Evaluator struct {
	projects    projectModel.ProjectStore
	evaluations projectModel.EvaluationStore
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

func NewEvaluator(projects projectModel.ProjectStore, evaluations projectModel.EvaluationStore, embedder embedding.Embedder) *Evaluator {
	return &Evaluator{
		projects:    projects,
		evaluations: evaluations,
		embedder:    embedder,
		logger:      logger_i.NewLogger("Evaluator"),
	}
}

// KeywordOverlap is the Jaccard index of the lower-cased alphanumeric token sets.
func KeywordOverlap(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokens(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range tokenPattern.FindAllString(strings.ToLower(s), -1) {
		set[t] = struct{}{}
	}
	return set
}

// Evaluate scores the project's current AI answers against groundTruth (question id to
// reference text). The returned record is COMPLETED, or FAILED with the error message.
func (e *Evaluator) Evaluate(ctx context.Context, projectId string, groundTruth map[string]string) (projectModel.Evaluation, error) {
	log := e.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("projectId", projectId)

	if _, err := e.projects.GetProject(ctx, projectId); err != nil {
		return projectModel.Evaluation{}, err
	}
	if err := e.projects.SetProjectStatus(ctx, projectId, projectModel.ProjectEvaluating); err != nil {
		return projectModel.Evaluation{}, appErrors.NewPersistenceError("set project evaluating", err)
	}

	now := time.Now().UTC()
	record := projectModel.Evaluation{
		Id:        utils.GetNewUUID(),
		ProjectId: projectId,
		Status:    projectModel.EvaluationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.evaluations.CreateEvaluation(ctx, record); err != nil {
		e.restoreReview(ctx, projectId)
		return record, appErrors.NewPersistenceError("create evaluation", err)
	}

	result, err := e.score(ctx, projectId, groundTruth)
	if err != nil {
		log.Error("Evaluation failed", "evaluationId", record.Id, "error", err)
		bg := context.WithoutCancel(ctx)
		if ferr := e.evaluations.FailEvaluation(bg, record.Id, err.Error()); ferr != nil {
			log.Error("Could not mark evaluation failed", "evaluationId", record.Id, "error", ferr)
		}
		e.restoreReview(ctx, projectId)
		record.Status = projectModel.EvaluationFailed
		record.Error = err.Error()
		return record, err
	}

	if err := e.evaluations.CompleteEvaluation(ctx, record.Id, result); err != nil {
		e.restoreReview(ctx, projectId)
		return record, appErrors.NewPersistenceError("complete evaluation", err)
	}
	if err := e.projects.SetProjectStatus(ctx, projectId, projectModel.ProjectEvaluated); err != nil {
		return record, appErrors.NewPersistenceError("set project evaluated", err)
	}
	metrics.ObserveEvaluationScore(result.Aggregate.OverallScore)
	log.Info("Evaluation completed", "evaluationId", record.Id, "overall", result.Aggregate.OverallScore)

	return e.evaluations.GetEvaluation(ctx, record.Id)
}

func (e *Evaluator) restoreReview(ctx context.Context, projectId string) {
	if err := e.projects.SetProjectStatus(context.WithoutCancel(ctx), projectId, projectModel.ProjectReview); err != nil {
		e.logger.Error("Could not return project to review", "projectId", projectId, "error", err)
	}
}

func (e *Evaluator) score(ctx context.Context, projectId string, groundTruth map[string]string) (projectModel.EvaluationMetrics, error) {
	rows, err := e.projects.ListAnswers(ctx, projectId)
	if err != nil {
		return projectModel.EvaluationMetrics{}, appErrors.NewPersistenceError("list answers", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Question.OrderIndex < rows[j].Question.OrderIndex })

	out := projectModel.EvaluationMetrics{PerQuestion: make([]projectModel.QuestionScore, 0, len(rows))}
	var semSum, kwSum, scoreSum float64
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return projectModel.EvaluationMetrics{}, err
		}
		ai := ""
		if row.Answer.AIAnswerText != nil {
			ai = *row.Answer.AIAnswerText
		}
		human := groundTruth[row.Question.Id]

		sem, err := e.semantic(ctx, ai, human)
		if err != nil {
			return projectModel.EvaluationMetrics{}, fmt.Errorf("question %s: %w", row.Question.Id, err)
		}
		kw := KeywordOverlap(ai, human)
		score := answer.Round3(semanticWeight*sem + keywordWeight*kw)

		semSum += sem
		kwSum += kw
		scoreSum += score
		out.PerQuestion = append(out.PerQuestion, projectModel.QuestionScore{
			QuestionId:         row.Question.Id,
			SemanticSimilarity: answer.Round3(sem),
			KeywordOverlap:     answer.Round3(kw),
			Score:              score,
			AIAnswer:           ai,
			HumanAnswer:        human,
		})
	}

	if n := float64(len(rows)); n > 0 {
		out.Aggregate = projectModel.AggregateScore{
			SemanticSimilarityAvg: answer.Round3(semSum / n),
			KeywordOverlapAvg:     answer.Round3(kwSum / n),
			OverallScore:          answer.Round3(scoreSum / n),
		}
	}
	return out, nil
}

// semantic embeds both texts in one call and returns their cosine. Two blank texts count
// as identical, matching KeywordOverlap. When only one side is blank the call is skipped
// and scores 0, since embedding providers reject empty input.
func (e *Evaluator) semantic(ctx context.Context, ai, human string) (float64, error) {
	aiBlank, humanBlank := strings.TrimSpace(ai) == "", strings.TrimSpace(human) == ""
	switch {
	case aiBlank && humanBlank:
		return 1, nil
	case aiBlank || humanBlank:
		return 0, nil
	}
	start := time.Now()
	vectors, err := e.embedder.BatchEmbedding(ctx, []string{ai, human})
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return 0, appErrors.NewUpstreamError("embedding", err)
	}
	if err := embedding.CheckBatch([]string{ai, human}, vectors); err != nil {
		return 0, appErrors.NewUpstreamError("embedding", err)
	}
	return vectorDB.CosineSimilarity(vectors[0], vectors[1]), nil
}
