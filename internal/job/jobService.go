package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("JobService")

// Service is the producer side of the queue. Workers read JobChannel and wake on
// DispatcherChannel; both stores are shared with them.
type Service struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	TranscriptStore   jobModel.TranscriptStore

	enqueued atomic.Int64
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	TranscriptStore   jobModel.TranscriptStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		TranscriptStore:   cfg.TranscriptStore,
	}
}

// Enqueue records a QUEUED job and hands it to the worker pool. The send blocks while the
// buffer is full so producers slow down instead of dropping work.
func (s *Service) Enqueue(ctx context.Context, jobType jobModel.JobType, payload jobModel.JobPayload) (jobModel.Job, error) {
	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	if traceId == "" {
		traceId = utils.GetNewUUID()
	}
	newJob := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     traceId,
		JobType:     jobType,
		JobPayload:  payload,
		CreatedTime: time.Now().UTC(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.Queued,
	}
	log := logger.With("traceId", traceId, "jobId", newJob.Id, "jobType", jobType)

	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		log.Error("Could not record queued job", "error", err)
		return newJob, err
	}

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- newJob:
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), newJob.Id)
		return newJob, ctx.Err()
	}
	log.Info("Created new job")

	s.wakeDispatcher(jobType, log)
	return newJob, nil
}

// wakeDispatcher asks for one more worker every RequestsPerNewWorkerCount jobs and for
// every long running job type. Idle workers retire on their own.
func (s *Service) wakeDispatcher(jobType jobModel.JobType, log *logger_i.Logger) {
	n := s.enqueued.Add(1)
	long := jobType == jobModel.JobTypeIngest || jobType == jobModel.JobTypeGenerate
	if n%config.RequestsPerNewWorkerCount != 0 && !long {
		return
	}
	metrics.StartDispatcherSignalCount()
	select {
	case s.DispatcherChannel <- true:
	default:
		log.Debug("Dispatcher already signalled", "enqueued", n)
	}
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
