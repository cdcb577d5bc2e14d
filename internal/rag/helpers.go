package rag

import (
	"errors"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

func returnOutput(job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusDone
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("Job step", "currentStep", job.CurrentStep)
	return job
}

// stepRecorder lets the pipeline stages move the job's current step as they go.
func stepRecorder(job *jobModel.Job, log *logger_i.Logger) func(jobModel.InternalStatus) {
	return func(step jobModel.InternalStatus) {
		*job = logOutput(*job, step, log)
	}
}

func (s *service) jobError(job jobModel.Job, err error, message string) jobModel.Job {
	s.logger.Error(message, "jobId", job.Id, "step", job.CurrentStep, "error", err)

	job.Error = jobModel.JobError{
		Code:    appErrors.HTTPStatus(err),
		Message: message + ": " + err.Error(),
		Retry:   canRetry(err),
	}
	job.Status = jobModel.JobStatusFailed
	job.CurrentStep = jobModel.Error
	return job
}

func canRetry(err error) bool {
	var upstream *appErrors.UpstreamServiceError
	var persistence *appErrors.PersistenceError
	return errors.As(err, &upstream) || errors.As(err, &persistence)
}
