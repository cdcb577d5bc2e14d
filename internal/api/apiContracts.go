package api

import (
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id          string              `json:"id" example:"job_cz109"`
	TraceId     string              `json:"trace_id,omitempty"`
	JobType     string              `json:"job_type" example:"GENERATE"`
	Status      string              `json:"status" example:"RUNNING"`
	CurrentStep string              `json:"current_step" example:"Retrieval"`
	Result      *jobModel.JobResult `json:"result,omitempty"`
	Error       *JobOutgoingError   `json:"error,omitempty"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     *time.Time          `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Id     string            `json:"id,omitempty"`
	Status JobExternalStatus `json:"status" example:"Error"`
	Error  JobOutgoingError  `json:"error"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type DocumentUploadResponse struct {
	Document corpusModel.Document `json:"document"`
	Job      InitJobResponse      `json:"job"`
}

type CreateProjectResponse struct {
	Project          projectModel.Project `json:"project"`
	QuestionsCreated int                  `json:"questions_created"`
	JobId            *string              `json:"job_id"`
}

type UpdateProjectResponse struct {
	Project projectModel.Project `json:"project"`
	JobId   *string              `json:"job_id"`
}

type GenerateResponse struct {
	Project projectModel.Project `json:"project"`
	Job     InitJobResponse      `json:"job"`
}

type EvaluateResponse struct {
	Evaluation *projectModel.Evaluation `json:"evaluation,omitempty"`
	Job        *InitJobResponse         `json:"job,omitempty"`
}

type ChatAcceptedResponse struct {
	ChatId string          `json:"chat_id"`
	Job    InitJobResponse `json:"job"`
}

type ChatHistoryResponse struct {
	ChatId string                `json:"chat_id"`
	Turns  []jobModel.ChatAnswer `json:"turns"`
}

// requests---------------------

type ChatRequest struct {
	Query  string `json:"query" validate:"required"`
	ChatID string `json:"chat_id,omitempty"`
}

type UpdateProjectRequest struct {
	Config         map[string]any `json:"config,omitempty"`
	Scope          *string        `json:"scope,omitempty" example:"SELECTED_DOCS"`
	DocumentIds    *[]string      `json:"document_ids,omitempty"`
	AutoRegenerate bool           `json:"auto_regenerate"`
}

type ReviewAnswerRequest struct {
	Status           string  `json:"status" validate:"required" example:"CONFIRMED"`
	ManualAnswerText *string `json:"manual_answer_text,omitempty"`
	ManualAnswerable *bool   `json:"manual_answerable,omitempty"`
}

type EvaluateRequest struct {
	GroundTruth []projectModel.GroundTruthItem `json:"ground_truth"`
	Async       bool                           `json:"async"`
}
