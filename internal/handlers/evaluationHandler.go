package handlers

import (
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter"
	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/api"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
)

// PostEvaluate godoc
// @Summary      Evaluate answers against ground truth
// @Description  Scores every AI answer against the reference text. Runs synchronously unless async is set.
// @Tags         Evaluations
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Project ID"
// @Param        request  body      api.EvaluateRequest  true  "Ground truth"
// @Success      200      {object}  api.EvaluateResponse  "Finished evaluation"
// @Success      202      {object}  api.EvaluateResponse  "Queued evaluation job"
// @Failure      404      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /projects/{id}/evaluate [post]
func (h *Handler) PostEvaluate(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.projects.Get(r.Context(), id); err != nil {
		writeAppError(w, r, id, err)
		return
	}

	if req.Async {
		queued, ok := h.enqueue(w, r, jobModel.JobTypeEvaluate, jobModel.JobPayload{ProjectId: id, GroundTruth: req.GroundTruth})
		if !ok {
			return
		}
		job := adapter.ToInitJobResponse(queued.Id)
		writeJsonResponse(w, http.StatusAccepted, api.EvaluateResponse{Job: &job})
		return
	}

	eval, err := h.evaluator.Evaluate(r.Context(), id, projectModel.GroundTruthMap(req.GroundTruth))
	if err != nil {
		writeAppError(w, r, eval.Id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.EvaluateResponse{Evaluation: &eval})
}

// GetEvaluation godoc
// @Summary      Get an evaluation
// @Tags         Evaluations
// @Produce      json
// @Param        id   path      string  true  "Evaluation ID"
// @Success      200  {object}  projectModel.Evaluation
// @Failure      404  {object}  api.ErrorResponse
// @Router       /evaluations/{id} [get]
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	eval, err := h.evaluations.GetEvaluation(r.Context(), id)
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, eval)
}
