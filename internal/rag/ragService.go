package rag

import (
	"context"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

// Service is the only thing the worker pool calls. Each method runs one job to
// completion and returns it with Status, Result and Error filled in.
type Service interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	GenerateAnswers(ctx context.Context, job jobModel.Job) jobModel.Job
	Evaluate(ctx context.Context, job jobModel.Job) jobModel.Job
	Chat(ctx context.Context, job jobModel.Job) jobModel.Job
}

type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, documentId string, onStep ingest.StepFunc) (int, error)
}

type AnswerGenerator interface {
	GenerateAnswers(ctx context.Context, projectId string, onStep answer.StepFunc) (jobModel.GenerationReport, error)
	Chat(ctx context.Context, query string, onStep answer.StepFunc) (projectModel.AIResult, error)
}

type ProjectEvaluator interface {
	Evaluate(ctx context.Context, projectId string, groundTruth map[string]string) (projectModel.Evaluation, error)
}

type service struct {
	pipeline  DocumentProcessor
	generator AnswerGenerator
	evaluator ProjectEvaluator
	logger    *logger_i.Logger
}

func NewService(pipeline DocumentProcessor, generator AnswerGenerator, evaluator ProjectEvaluator) Service {
	return &service{
		pipeline:  pipeline,
		generator: generator,
		evaluator: evaluator,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.jobLogger(ctx, job).With("documentId", job.JobPayload.DocumentId)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	count, err := s.pipeline.ProcessDocument(ctx, job.JobPayload.DocumentId, stepRecorder(&job, log))
	if err != nil {
		return s.jobError(job, err, "INGESTION_FAILURE")
	}
	job.Result.ChunksIndexed = count
	return returnOutput(job)
}

func (s *service) GenerateAnswers(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.jobLogger(ctx, job).With("projectId", job.JobPayload.ProjectId)

	report, err := s.generator.GenerateAnswers(ctx, job.JobPayload.ProjectId, stepRecorder(&job, log))
	if err != nil {
		return s.jobError(job, err, "GENERATION_FAILURE")
	}
	job.Result.Generation = &report
	return returnOutput(job)
}

func (s *service) Evaluate(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.jobLogger(ctx, job).With("projectId", job.JobPayload.ProjectId)
	job = logOutput(job, jobModel.Scoring, log)

	groundTruth := projectModel.GroundTruthMap(job.JobPayload.GroundTruth)
	eval, err := s.evaluator.Evaluate(ctx, job.JobPayload.ProjectId, groundTruth)
	if eval.Id != "" {
		job.Result.Evaluation = &eval
	}
	if err != nil {
		return s.jobError(job, err, "EVALUATION_FAILURE")
	}
	return returnOutput(job)
}

func (s *service) Chat(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.jobLogger(ctx, job).With("chatId", job.JobPayload.ChatId)

	res, err := s.generator.Chat(ctx, job.JobPayload.Query, stepRecorder(&job, log))
	if err != nil {
		return s.jobError(job, err, "CHAT_FAILURE")
	}
	job.Result.Chat = &jobModel.ChatAnswer{
		Query:      job.JobPayload.Query,
		AnswerText: res.Text,
		Answerable: res.Answerable,
		Confidence: res.Confidence,
		Citations:  res.Citations,
	}
	return returnOutput(job)
}

func (s *service) jobLogger(ctx context.Context, job jobModel.Job) *logger_i.Logger {
	return s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("jobId", job.Id, "jobType", job.JobType)
}
