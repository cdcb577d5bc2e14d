package handlers

import (
	"context"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter"
	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/api"
	"github.com/akolanti/QuestionnaireAPI/internal/corpus"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/project"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var (
	logJH = logger_i.NewLogger("JobHandler")
	logRH = logger_i.NewLogger("RequestHandler")
)

type JobQueue interface {
	Enqueue(ctx context.Context, jobType jobModel.JobType, payload jobModel.JobPayload) (jobModel.Job, error)
	GetJob(ctx context.Context, id string) (jobModel.Job, bool)
}

type ProjectEvaluator interface {
	Evaluate(ctx context.Context, projectId string, groundTruth map[string]string) (projectModel.Evaluation, error)
}

type EvaluationReader interface {
	GetEvaluation(ctx context.Context, id string) (projectModel.Evaluation, error)
}

type Dependencies struct {
	Jobs        JobQueue
	Documents   *corpus.Service
	Projects    *project.Service
	Evaluator   ProjectEvaluator
	Evaluations EvaluationReader
	Transcripts jobModel.TranscriptStore
}

type Handler struct {
	jobs        JobQueue
	documents   *corpus.Service
	projects    *project.Service
	evaluator   ProjectEvaluator
	evaluations EvaluationReader
	transcripts jobModel.TranscriptStore
}

func NewHandler(deps Dependencies) *Handler {
	logJH.Info("Starting handlers")
	return &Handler{
		jobs:        deps.Jobs,
		documents:   deps.Documents,
		projects:    deps.Projects,
		evaluator:   deps.Evaluator,
		evaluations: deps.Evaluations,
		transcripts: deps.Transcripts,
	}
}

// Health godoc
// @Summary      Liveness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// GetStatus godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a background job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse    "The current status of the job"
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /status/{id} [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	result, isFound := h.jobs.GetJob(r.Context(), id)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, id, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostChat godoc
// @Summary      Ask the corpus
// @Description  Queues an ad-hoc question against the whole corpus. The answer lands in the job result and the chat transcript.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest           true  "Query and optional chat id"
// @Success      202      {object}  api.ChatAcceptedResponse  "Job successfully created"
// @Failure      400      {object}  api.ErrorResponse         "Empty query"
// @Router       /chat [post]
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	var req api.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if isBlank(req.Query) {
		WriteErrorResponse(w, http.StatusBadRequest, req.ChatID, "query is required")
		return
	}
	chatId := req.ChatID
	if chatId == "" {
		chatId = utils.GetNewUUID()
		logRH.Debug("New chat", "chatId", chatId)
	}

	queued, ok := h.enqueue(w, r, jobModel.JobTypeChat, jobModel.JobPayload{ChatId: chatId, Query: req.Query})
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusAccepted, api.ChatAcceptedResponse{ChatId: chatId, Job: adapter.ToInitJobResponse(queued.Id)})
}

// GetChatHistory godoc
// @Summary      Chat transcript
// @Tags         Chat
// @Produce      json
// @Param        chatId  path      string  true  "Chat ID"
// @Success      200     {object}  api.ChatHistoryResponse
// @Router       /chat/{chatId}/history [get]
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	chatId := utils.GetChiURLParam(r, "chatId")
	turns, err := h.transcripts.GetTranscript(r.Context(), chatId)
	if err != nil {
		writeAppError(w, r, chatId, err)
		return
	}
	if turns == nil {
		turns = []jobModel.ChatAnswer{}
	}
	writeJsonResponse(w, http.StatusOK, api.ChatHistoryResponse{ChatId: chatId, Turns: turns})
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, jobType jobModel.JobType, payload jobModel.JobPayload) (jobModel.Job, bool) {
	queued, err := h.jobs.Enqueue(r.Context(), jobType, payload)
	if err != nil {
		logJH.WithTrace(r.Context(), traceKey).Error("Could not queue job", "jobType", jobType, "error", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Job queue unavailable")
		return queued, false
	}
	return queued, true
}
