package worker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
)

var deadlines = map[jobModel.JobType]time.Duration{
	jobModel.JobTypeIngest:   config.IngestJobTimeout,
	jobModel.JobTypeGenerate: config.GenerateJobTimeout,
	jobModel.JobTypeEvaluate: config.EvaluateJobTimeout,
	jobModel.JobTypeChat:     config.ChatJobTimeout,
}

func deadlineFor(t jobModel.JobType) time.Duration {
	if d, ok := deadlines[t]; ok {
		return d
	}
	return config.ChatJobTimeout
}

func (p *pool) execute(j jobModel.Job) {
	started := time.Now()
	base := context.WithValue(context.Background(), config.TRACE_ID_KEY, j.TraceId)
	ctx, cancel := context.WithTimeout(base, deadlineFor(j.JobType))
	defer cancel()
	log := logger.With("traceId", j.TraceId, "jobId", j.Id, "jobType", j.JobType)

	j.Status = jobModel.JobStatusRunning
	p.persist(ctx, j)

	j = p.dispatchJob(ctx, j)
	if j.JobType == jobModel.JobTypeChat && j.Status == jobModel.JobStatusDone && j.Result.Chat != nil {
		if err := p.jobs.TranscriptStore.AppendTurn(ctx, j.JobPayload.ChatId, *j.Result.Chat); err != nil {
			log.Error("Failed to save chat turn", "error", err)
		}
	}

	j.EndTime = time.Now().UTC()
	// written even when the deadline already passed
	p.persist(context.WithoutCancel(ctx), j)
	metrics.CaptureJobMetrics(string(j.JobType), string(j.Status), time.Since(started))
	log.Info("Job finished", "status", j.Status, "duration", time.Since(started))
}

// dispatchJob routes j to the rag service. A panicking handler fails the job instead of
// taking the worker down.
func (p *pool) dispatchJob(ctx context.Context, j jobModel.Job) (out jobModel.Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "jobId", j.Id, "panic", r)
			out = failed(j, http.StatusInternalServerError, fmt.Sprintf("job aborted: %v", r))
		}
	}()

	switch j.JobType {
	case jobModel.JobTypeIngest:
		return p.rag.IngestDocument(ctx, j)
	case jobModel.JobTypeGenerate:
		return p.rag.GenerateAnswers(ctx, j)
	case jobModel.JobTypeEvaluate:
		return p.rag.Evaluate(ctx, j)
	case jobModel.JobTypeChat:
		return p.rag.Chat(ctx, j)
	}
	return failed(j, http.StatusBadRequest, "unknown job type "+string(j.JobType))
}

func failed(j jobModel.Job, code int, msg string) jobModel.Job {
	j.Status = jobModel.JobStatusFailed
	j.CurrentStep = jobModel.Error
	j.Error = jobModel.JobError{Code: code, Message: msg}
	return j
}

func (p *pool) persist(ctx context.Context, j jobModel.Job) {
	if err := p.jobs.JobStore.SaveJob(ctx, j); err != nil {
		logger.Error("Failed to update job state", "jobId", j.Id, "status", j.Status, "error", err)
	}
}
