package adapter

import (
	"fmt"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/api"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	res := api.JobResponse{
		Id:          job.Id,
		TraceId:     job.TraceId,
		JobType:     string(job.JobType),
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		Error:       errorPtr,
		StartTime:   job.CreatedTime,
	}
	if hasResult(job.Result) {
		result := job.Result
		res.Result = &result
	}
	if !job.EndTime.IsZero() {
		end := job.EndTime
		res.EndTime = &end
	}
	return res
}

func hasResult(r jobModel.JobResult) bool {
	return r.ChunksIndexed != 0 || r.Generation != nil || r.Evaluation != nil || r.Chat != nil
}

func BadRequest(id string, error string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Id:     id,
		Status: api.JobStatusError,
		Error: api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

// FromError maps the error taxonomy onto a response. Upstream and persistence failures
// are worth retrying, the rest are not.
func FromError(id string, err error) (int, api.ErrorResponse) {
	code := appErrors.HTTPStatus(err)
	res := BadRequest(id, err.Error(), code)
	res.Error.Retry = appErrors.IsUpstream(err) || appErrors.IsPersistence(err)
	if code == http.StatusInternalServerError && !appErrors.IsConfiguration(err) {
		res.Error.Message = "Internal Server Error"
	}
	return code, res
}
