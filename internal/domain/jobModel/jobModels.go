package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued  JobStatus = "QUEUED"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusDone    JobStatus = "DONE"
	JobStatusFailed  JobStatus = "FAILED"

	Queued           InternalStatus = "Queued"
	Extraction       InternalStatus = "Extraction"
	Chunking         InternalStatus = "Chunking"
	Indexing         InternalStatus = "Indexing"
	Retrieval        InternalStatus = "Retrieval"
	LLMCall          InternalStatus = "LLM"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	AnswerWrite      InternalStatus = "AnswerWrite"
	Scoring          InternalStatus = "Scoring"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeIngest   JobType = "INGEST"
	JobTypeGenerate JobType = "GENERATE"
	JobTypeEvaluate JobType = "EVALUATE"
	JobTypeChat     JobType = "CHAT"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Result      JobResult      `json:"result"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentId   string                         `json:"document_id,omitempty"`
	ProjectId    string                         `json:"project_id,omitempty"`
	EvaluationId string                         `json:"evaluation_id,omitempty"`
	GroundTruth  []projectModel.GroundTruthItem `json:"ground_truth,omitempty"`

	ChatId string `json:"chat_id,omitempty"`
	Query  string `json:"query,omitempty"`
}

// JobResult is what a finished job reports back through the status endpoint.
type JobResult struct {
	ChunksIndexed int `json:"chunks_indexed,omitempty"`

	Generation *GenerationReport        `json:"generation,omitempty"`
	Evaluation *projectModel.Evaluation `json:"evaluation,omitempty"`
	Chat       *ChatAnswer              `json:"chat,omitempty"`
}

// GenerationReport counts the outcome of one project run. Failed questions stay PENDING.
type GenerationReport struct {
	ProjectId   string   `json:"project_id"`
	Total       int      `json:"total"`
	Generated   int      `json:"generated"`
	MissingData int      `json:"missing_data"`
	Failed      int      `json:"failed"`
	FailedIds   []string `json:"failed_question_ids,omitempty"`
}

type ChatAnswer struct {
	Query      string                  `json:"query"`
	AnswerText string                  `json:"answer_text"`
	Answerable bool                    `json:"answerable"`
	Confidence float64                 `json:"confidence"`
	Citations  []projectModel.Citation `json:"citations"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// TranscriptStore keeps the turns of an ad-hoc chat session.
type TranscriptStore interface {
	AppendTurn(ctx context.Context, chatId string, turn ChatAnswer) error
	GetTranscript(ctx context.Context, chatId string) ([]ChatAnswer, error)
}
