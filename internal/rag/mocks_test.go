package rag_test

import (
	"context"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
)

type MockPipeline struct {
	OnProcess func(ctx context.Context, documentId string, onStep ingest.StepFunc) (int, error)
}

func (m *MockPipeline) ProcessDocument(ctx context.Context, documentId string, onStep ingest.StepFunc) (int, error) {
	if m.OnProcess != nil {
		return m.OnProcess(ctx, documentId, onStep)
	}
	onStep(jobModel.Extraction)
	onStep(jobModel.Indexing)
	return 3, nil
}

type MockGenerator struct {
	OnGenerate func(ctx context.Context, projectId string, onStep answer.StepFunc) (jobModel.GenerationReport, error)
	OnChat     func(ctx context.Context, query string, onStep answer.StepFunc) (projectModel.AIResult, error)
}

func (m *MockGenerator) GenerateAnswers(ctx context.Context, projectId string, onStep answer.StepFunc) (jobModel.GenerationReport, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, projectId, onStep)
	}
	return jobModel.GenerationReport{ProjectId: projectId, Total: 1, Generated: 1}, nil
}

func (m *MockGenerator) Chat(ctx context.Context, query string, onStep answer.StepFunc) (projectModel.AIResult, error) {
	if m.OnChat != nil {
		return m.OnChat(ctx, query, onStep)
	}
	return projectModel.AIResult{Status: projectModel.AnswerGenerated, Text: "default answer", Answerable: true, Confidence: 0.8}, nil
}

type MockEvaluator struct {
	OnEvaluate func(ctx context.Context, projectId string, gt map[string]string) (projectModel.Evaluation, error)
}

func (m *MockEvaluator) Evaluate(ctx context.Context, projectId string, gt map[string]string) (projectModel.Evaluation, error) {
	if m.OnEvaluate != nil {
		return m.OnEvaluate(ctx, projectId, gt)
	}
	return projectModel.Evaluation{Id: "e1", ProjectId: projectId, Status: projectModel.EvaluationCompleted}, nil
}
