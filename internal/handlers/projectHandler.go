package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter"
	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/api"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/project"
)

// PostProject godoc
// @Summary      Create a project from a questionnaire
// @Description  Parses the questionnaire into questions with PENDING answers. Generation is queued unless auto_generate is false.
// @Tags         Projects
// @Accept       multipart/form-data
// @Produce      json
// @Param        name                formData  string  true   "Project name"
// @Param        scope               formData  string  false  "ALL_DOCS (default) or SELECTED_DOCS"
// @Param        description         formData  string  false  "Description"
// @Param        document_ids        formData  string  false  "Comma separated document ids for SELECTED_DOCS"
// @Param        auto_generate       formData  bool    false  "Queue answer generation (default true)"
// @Param        questionnaire_text  formData  string  false  "Questionnaire as text"
// @Param        questionnaire       formData  file    false  "Questionnaire file"
// @Success      201  {object}  api.CreateProjectResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /projects [post]
func (h *Handler) PostProject(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	autoGenerate := true
	if raw := r.FormValue("auto_generate"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "auto_generate must be a boolean")
			return
		}
		autoGenerate = v
	}

	in := project.CreateInput{
		Name:              r.FormValue("name"),
		Scope:             r.FormValue("scope"),
		DocumentIds:       project.SplitIds(r.FormValue("document_ids")),
		QuestionnaireText: r.FormValue("questionnaire_text"),
	}
	if in.Scope == "" {
		in.Scope = string(projectModel.ScopeAllDocs)
	}
	if desc := r.FormValue("description"); desc != "" {
		in.Description = &desc
	}

	if in.QuestionnaireText == "" {
		path, cleanup, err := questionnaireUpload(r)
		if err != nil {
			writeAppError(w, r, "", err)
			return
		}
		defer cleanup()
		in.QuestionnairePath = path
	}

	p, questions, err := h.projects.Create(r.Context(), in)
	if err != nil {
		writeAppError(w, r, "", err)
		return
	}

	res := api.CreateProjectResponse{Project: p, QuestionsCreated: len(questions)}
	if autoGenerate {
		p, jobId, ok := h.queueGeneration(w, r, p.Id)
		if !ok {
			return
		}
		res.Project = p
		res.JobId = &jobId
	}
	writeJsonResponse(w, http.StatusCreated, res)
}

// questionnaireUpload spools the optional questionnaire file so the extractor can read it
// by path. A missing file is not an error here; the project service rejects the request.
func questionnaireUpload(r *http.Request) (string, func(), error) {
	noop := func() {}
	file, meta, err := r.FormFile("questionnaire")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", noop, nil
	}
	if err != nil {
		return "", noop, fmt.Errorf("reading questionnaire upload: %w", err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "questionnaire-*"+filepath.Ext(meta.Filename))
	if err != nil {
		return "", noop, fmt.Errorf("spooling questionnaire: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("spooling questionnaire: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("spooling questionnaire: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// GetProjects godoc
// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Success      200  {array}  projectModel.Project
// @Router       /projects [get]
func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeAppError(w, r, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, projects)
}

// GetProject godoc
// @Summary      Get a project
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectModel.Project
// @Failure      404  {object}  api.ErrorResponse
// @Router       /projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, p)
}

// PatchProject godoc
// @Summary      Update a project
// @Description  Changing config, scope or documents makes the project OUTDATED and its answers STALE.
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Project ID"
// @Param        request  body      api.UpdateProjectRequest  true  "Fields to change"
// @Success      200      {object}  api.UpdateProjectResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /projects/{id} [patch]
func (h *Handler) PatchProject(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.projects.Update(r.Context(), id, project.UpdateInput{
		Config:      req.Config,
		Scope:       req.Scope,
		DocumentIds: req.DocumentIds,
	})
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}

	res := api.UpdateProjectResponse{Project: p}
	if req.AutoRegenerate {
		p, jobId, ok := h.queueGeneration(w, r, id)
		if !ok {
			return
		}
		res.Project = p
		res.JobId = &jobId
	}
	writeJsonResponse(w, http.StatusOK, res)
}

// PostGenerate godoc
// @Summary      Generate answers
// @Description  Marks the project GENERATING and queues a generation job.
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      202  {object}  api.GenerateResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /projects/{id}/generate [post]
func (h *Handler) PostGenerate(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if _, err := h.projects.Get(r.Context(), id); err != nil {
		writeAppError(w, r, id, err)
		return
	}
	p, jobId, ok := h.queueGeneration(w, r, id)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusAccepted, api.GenerateResponse{Project: p, Job: adapter.ToInitJobResponse(jobId)})
}

// GetQuestions godoc
// @Summary      Questions of a project
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {array}   projectModel.Question
// @Failure      404  {object}  api.ErrorResponse
// @Router       /projects/{id}/questions [get]
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	questions, err := h.projects.Questions(r.Context(), id)
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, questions)
}

// GetAnswers godoc
// @Summary      Questions with their answers
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {array}   projectModel.QuestionAnswer
// @Failure      404  {object}  api.ErrorResponse
// @Router       /projects/{id}/answers [get]
func (h *Handler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	answers, err := h.projects.Answers(r.Context(), id)
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, answers)
}

// PatchReview godoc
// @Summary      Review an answer
// @Description  Stores the reviewer's status and manual answer. AI fields are left untouched.
// @Tags         Answers
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Answer ID"
// @Param        request  body      api.ReviewAnswerRequest  true  "Review"
// @Success      200      {object}  projectModel.Answer
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /answers/{id}/review [patch]
func (h *Handler) PatchReview(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.ReviewAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	answer, err := h.projects.Review(r.Context(), id, project.ReviewInput{
		Status:           req.Status,
		ManualAnswerText: req.ManualAnswerText,
		ManualAnswerable: req.ManualAnswerable,
	})
	if err != nil {
		writeAppError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, answer)
}

func (h *Handler) queueGeneration(w http.ResponseWriter, r *http.Request, projectId string) (projectModel.Project, string, bool) {
	p, err := h.projects.MarkGenerating(r.Context(), projectId)
	if err != nil {
		writeAppError(w, r, projectId, err)
		return p, "", false
	}
	queued, ok := h.enqueue(w, r, jobModel.JobTypeGenerate, jobModel.JobPayload{ProjectId: projectId})
	if !ok {
		return p, "", false
	}
	return p, queued.Id, true
}
