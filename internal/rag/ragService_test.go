package rag_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/answer"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
)

func TestService_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		job            jobModel.Job
		setupMocks     func(p *MockPipeline, g *MockGenerator, e *MockEvaluator)
		run            func(s rag.Service, ctx context.Context, j jobModel.Job) jobModel.Job
		expectedStatus jobModel.JobStatus
		expectedStep   jobModel.InternalStatus
		expectedCode   int
		expectedRetry  bool
		expectedErr    string
		check          func(t *testing.T, j jobModel.Job)
	}{
		{
			name:           "Ingest_Success",
			job:            jobModel.Job{Id: "j1", JobType: jobModel.JobTypeIngest, JobPayload: jobModel.JobPayload{DocumentId: "d1"}},
			run:            rag.Service.IngestDocument,
			expectedStatus: jobModel.JobStatusDone,
			expectedStep:   jobModel.Complete,
			check: func(t *testing.T, j jobModel.Job) {
				if j.Result.ChunksIndexed != 3 {
					t.Errorf("chunks indexed = %d", j.Result.ChunksIndexed)
				}
			},
		},
		{
			name: "Ingest_Upstream_Failure",
			job:  jobModel.Job{Id: "j2", JobType: jobModel.JobTypeIngest, JobPayload: jobModel.JobPayload{DocumentId: "d1"}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				p.OnProcess = func(ctx context.Context, id string, onStep ingest.StepFunc) (int, error) {
					onStep(jobModel.Indexing)
					return 0, appErrors.NewUpstreamError("embedding", errors.New("quota"))
				}
			},
			run:            rag.Service.IngestDocument,
			expectedStatus: jobModel.JobStatusFailed,
			expectedStep:   jobModel.Error,
			expectedCode:   http.StatusBadGateway,
			expectedRetry:  true,
			expectedErr:    "INGESTION_FAILURE",
		},
		{
			name: "Generate_Report",
			job:  jobModel.Job{Id: "j3", JobType: jobModel.JobTypeGenerate, JobPayload: jobModel.JobPayload{ProjectId: "p1"}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				g.OnGenerate = func(ctx context.Context, id string, onStep answer.StepFunc) (jobModel.GenerationReport, error) {
					return jobModel.GenerationReport{ProjectId: id, Total: 2, Generated: 1, Failed: 1, FailedIds: []string{"q2"}}, nil
				}
			},
			run:            rag.Service.GenerateAnswers,
			expectedStatus: jobModel.JobStatusDone,
			expectedStep:   jobModel.Complete,
			check: func(t *testing.T, j jobModel.Job) {
				if j.Result.Generation == nil || j.Result.Generation.Failed != 1 {
					t.Errorf("generation report missing: %+v", j.Result.Generation)
				}
			},
		},
		{
			name: "Generate_Unknown_Project",
			job:  jobModel.Job{Id: "j4", JobType: jobModel.JobTypeGenerate, JobPayload: jobModel.JobPayload{ProjectId: "nope"}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				g.OnGenerate = func(ctx context.Context, id string, onStep answer.StepFunc) (jobModel.GenerationReport, error) {
					return jobModel.GenerationReport{}, appErrors.NewNotFound("project", id)
				}
			},
			run:            rag.Service.GenerateAnswers,
			expectedStatus: jobModel.JobStatusFailed,
			expectedStep:   jobModel.Error,
			expectedCode:   http.StatusNotFound,
			expectedErr:    "GENERATION_FAILURE",
		},
		{
			name: "Evaluate_Passes_GroundTruth",
			job: jobModel.Job{Id: "j5", JobType: jobModel.JobTypeEvaluate, JobPayload: jobModel.JobPayload{
				ProjectId:   "p1",
				GroundTruth: []projectModel.GroundTruthItem{{QuestionId: "q1", AnswerText: "yes"}},
			}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				e.OnEvaluate = func(ctx context.Context, id string, gt map[string]string) (projectModel.Evaluation, error) {
					if gt["q1"] != "yes" {
						return projectModel.Evaluation{}, errors.New("ground truth lost")
					}
					return projectModel.Evaluation{Id: "e9", Status: projectModel.EvaluationCompleted}, nil
				}
			},
			run:            rag.Service.Evaluate,
			expectedStatus: jobModel.JobStatusDone,
			expectedStep:   jobModel.Complete,
			check: func(t *testing.T, j jobModel.Job) {
				if j.Result.Evaluation == nil || j.Result.Evaluation.Id != "e9" {
					t.Errorf("evaluation missing: %+v", j.Result.Evaluation)
				}
			},
		},
		{
			name: "Evaluate_Failure_Keeps_Record",
			job:  jobModel.Job{Id: "j6", JobType: jobModel.JobTypeEvaluate, JobPayload: jobModel.JobPayload{ProjectId: "p1"}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				e.OnEvaluate = func(ctx context.Context, id string, gt map[string]string) (projectModel.Evaluation, error) {
					return projectModel.Evaluation{Id: "e10", Status: projectModel.EvaluationFailed},
						appErrors.NewUpstreamError("embedding", errors.New("down"))
				}
			},
			run:            rag.Service.Evaluate,
			expectedStatus: jobModel.JobStatusFailed,
			expectedStep:   jobModel.Error,
			expectedCode:   http.StatusBadGateway,
			expectedRetry:  true,
			expectedErr:    "EVALUATION_FAILURE",
			check: func(t *testing.T, j jobModel.Job) {
				if j.Result.Evaluation == nil || j.Result.Evaluation.Status != projectModel.EvaluationFailed {
					t.Errorf("failed evaluation record not reported: %+v", j.Result.Evaluation)
				}
			},
		},
		{
			name:           "Chat_Success",
			job:            jobModel.Job{Id: "j7", JobType: jobModel.JobTypeChat, JobPayload: jobModel.JobPayload{ChatId: "c1", Query: "Is data encrypted?"}},
			run:            rag.Service.Chat,
			expectedStatus: jobModel.JobStatusDone,
			expectedStep:   jobModel.Complete,
			check: func(t *testing.T, j jobModel.Job) {
				c := j.Result.Chat
				if c == nil || c.AnswerText != "default answer" || c.Query != "Is data encrypted?" || !c.Answerable {
					t.Errorf("unexpected chat result %+v", c)
				}
			},
		},
		{
			name: "Chat_LLM_Failure",
			job:  jobModel.Job{Id: "j8", JobType: jobModel.JobTypeChat, JobPayload: jobModel.JobPayload{Query: "q"}},
			setupMocks: func(p *MockPipeline, g *MockGenerator, e *MockEvaluator) {
				g.OnChat = func(ctx context.Context, q string, onStep answer.StepFunc) (projectModel.AIResult, error) {
					onStep(jobModel.LLMCall)
					return projectModel.AIResult{}, appErrors.NewUpstreamError("generation", errors.New("provider down"))
				}
			},
			run:            rag.Service.Chat,
			expectedStatus: jobModel.JobStatusFailed,
			expectedStep:   jobModel.Error,
			expectedCode:   http.StatusBadGateway,
			expectedRetry:  true,
			expectedErr:    "CHAT_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, g, e := &MockPipeline{}, &MockGenerator{}, &MockEvaluator{}
			if tt.setupMocks != nil {
				tt.setupMocks(p, g, e)
			}
			svc := rag.NewService(p, g, e)

			got := tt.run(svc, context.Background(), tt.job)

			if got.Status != tt.expectedStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.expectedStatus)
			}
			if got.CurrentStep != tt.expectedStep {
				t.Errorf("step = %s, want %s", got.CurrentStep, tt.expectedStep)
			}
			if tt.expectedErr != "" {
				if !strings.HasPrefix(got.Error.Message, tt.expectedErr) {
					t.Errorf("error message = %q, want prefix %q", got.Error.Message, tt.expectedErr)
				}
				if got.Error.Code != tt.expectedCode {
					t.Errorf("error code = %d, want %d", got.Error.Code, tt.expectedCode)
				}
				if got.Error.Retry != tt.expectedRetry {
					t.Errorf("retry = %v, want %v", got.Error.Retry, tt.expectedRetry)
				}
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
