package projectModel

import (
	"context"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

type ProjectScope string

const (
	ScopeAllDocs      ProjectScope = "ALL_DOCS"
	ScopeSelectedDocs ProjectScope = "SELECTED_DOCS"
)

type ProjectStatus string

const (
	ProjectCreated    ProjectStatus = "CREATED"
	ProjectParsing    ProjectStatus = "PARSING"
	ProjectReady      ProjectStatus = "READY"
	ProjectGenerating ProjectStatus = "GENERATING"
	ProjectOutdated   ProjectStatus = "OUTDATED"
	ProjectReview     ProjectStatus = "REVIEW"
	ProjectEvaluating ProjectStatus = "EVALUATING"
	ProjectEvaluated  ProjectStatus = "EVALUATED"
	ProjectFailed     ProjectStatus = "FAILED"
)

type AnswerStatus string

const (
	AnswerPending       AnswerStatus = "PENDING"
	AnswerGenerated     AnswerStatus = "GENERATED"
	AnswerConfirmed     AnswerStatus = "CONFIRMED"
	AnswerRejected      AnswerStatus = "REJECTED"
	AnswerManualUpdated AnswerStatus = "MANUAL_UPDATED"
	AnswerMissingData   AnswerStatus = "MISSING_DATA"
	AnswerStale         AnswerStatus = "STALE"
)

type EvaluationStatus string

const (
	EvaluationPending   EvaluationStatus = "PENDING"
	EvaluationCompleted EvaluationStatus = "COMPLETED"
	EvaluationFailed    EvaluationStatus = "FAILED"
)

func ParseScope(s string) (ProjectScope, bool) {
	switch ProjectScope(s) {
	case ScopeAllDocs, ScopeSelectedDocs:
		return ProjectScope(s), true
	}
	return "", false
}

func ParseAnswerStatus(s string) (AnswerStatus, bool) {
	switch AnswerStatus(s) {
	case AnswerPending, AnswerGenerated, AnswerConfirmed, AnswerRejected,
		AnswerManualUpdated, AnswerMissingData, AnswerStale:
		return AnswerStatus(s), true
	}
	return "", false
}

type Project struct {
	Id          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Scope       ProjectScope   `json:"scope"`
	Status      ProjectStatus  `json:"status"`
	Config      map[string]any `json:"config"`
	DocumentIds []string       `json:"document_ids"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DocumentFilter is the retrieval scope of the project. Corpus-wide projects are unconstrained.
func (p Project) DocumentFilter() *corpusModel.DocumentFilter {
	if p.Scope != ScopeSelectedDocs {
		return nil
	}
	ids := make([]string, len(p.DocumentIds))
	copy(ids, p.DocumentIds)
	return &corpusModel.DocumentFilter{DocumentIds: ids}
}

type Question struct {
	Id         string  `json:"id"`
	ProjectId  string  `json:"project_id"`
	Section    *string `json:"section"`
	OrderIndex int     `json:"order_index"`
	Text       string  `json:"text"`
}

type Citation struct {
	ChunkId     string            `json:"chunk_id"`
	DocumentId  string            `json:"document_id"`
	Page        *int              `json:"page"`
	BBox        *corpusModel.BBox `json:"bbox"`
	Similarity  float64           `json:"similarity"`
	TextSnippet string            `json:"text_snippet"`
}

type Answer struct {
	Id         string       `json:"id"`
	QuestionId string       `json:"question_id"`
	Status     AnswerStatus `json:"status"`

	AIAnswerText *string    `json:"ai_answer_text"`
	AIAnswerable *bool      `json:"ai_answerable"`
	AIConfidence *float64   `json:"ai_confidence"`
	AICitations  []Citation `json:"ai_citations"`
	AIError      string     `json:"ai_error,omitempty"`

	ManualAnswerText *string    `json:"manual_answer_text"`
	ManualAnswerable *bool      `json:"manual_answerable"`
	ManualUpdatedAt  *time.Time `json:"manual_updated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AIResult is the generator's output for one question. It only ever touches the AI fields.
type AIResult struct {
	Status     AnswerStatus
	Text       string
	Answerable bool
	Confidence float64
	Citations  []Citation
}

type ManualReview struct {
	Status           AnswerStatus
	ManualAnswerText *string
	ManualAnswerable *bool
}

// QuestionAnswer pairs a question with its single answer.
type QuestionAnswer struct {
	Question Question `json:"question"`
	Answer   Answer   `json:"answer"`
}

type QuestionScore struct {
	QuestionId         string  `json:"question_id"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	KeywordOverlap     float64 `json:"keyword_overlap"`
	Score              float64 `json:"score"`
	AIAnswer           string  `json:"ai_answer"`
	HumanAnswer        string  `json:"human_answer"`
}

type AggregateScore struct {
	SemanticSimilarityAvg float64 `json:"semantic_similarity_avg"`
	KeywordOverlapAvg     float64 `json:"keyword_overlap_avg"`
	OverallScore          float64 `json:"overall_score"`
}

type EvaluationMetrics struct {
	PerQuestion []QuestionScore `json:"per_question"`
	Aggregate   AggregateScore  `json:"aggregate"`
}

type Evaluation struct {
	Id        string             `json:"id"`
	ProjectId string             `json:"project_id"`
	Status    EvaluationStatus   `json:"status"`
	Metrics   *EvaluationMetrics `json:"metrics"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// GroundTruthItem is the wire form of one reference answer.
type GroundTruthItem struct {
	QuestionId string `json:"question_id" yaml:"question_id"`
	AnswerText string `json:"answer_text" yaml:"answer_text"`
}

func GroundTruthMap(items []GroundTruthItem) map[string]string {
	m := make(map[string]string, len(items))
	for _, item := range items {
		m[item.QuestionId] = item.AnswerText
	}
	return m
}

type ProjectUpdate struct {
	Config      map[string]any
	Scope       *ProjectScope
	DocumentIds []string
	SetDocs     bool
}

// ProjectStore persists projects, questions and answers. Every method is one transaction.
type ProjectStore interface {
	CreateProject(ctx context.Context, project Project, questions []Question) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, id string, update ProjectUpdate) (Project, error)
	SetProjectStatus(ctx context.Context, id string, status ProjectStatus) error

	ListQuestions(ctx context.Context, projectId string) ([]Question, error)
	ListAnswers(ctx context.Context, projectId string) ([]QuestionAnswer, error)
	GetAnswer(ctx context.Context, answerId string) (Answer, error)

	SaveAIResult(ctx context.Context, questionId string, result AIResult) error
	SaveAIError(ctx context.Context, questionId string, message string) error
	ReviewAnswer(ctx context.Context, answerId string, review ManualReview, at time.Time) (Answer, error)

	// MarkCorpusProjectsOutdated moves every ALL_DOCS project to OUTDATED and their
	// GENERATED answers to STALE. It returns the affected project ids.
	MarkCorpusProjectsOutdated(ctx context.Context) ([]string, error)
}

type EvaluationStore interface {
	CreateEvaluation(ctx context.Context, eval Evaluation) error
	CompleteEvaluation(ctx context.Context, id string, metrics EvaluationMetrics) error
	FailEvaluation(ctx context.Context, id string, message string) error
	GetEvaluation(ctx context.Context, id string) (Evaluation, error)
}
