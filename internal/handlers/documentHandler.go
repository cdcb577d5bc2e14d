package handlers

import (
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter"
	"github.com/akolanti/QuestionnaireAPI/internal/api"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
)

// PostDocument godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, stores it and queues an ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF, DOCX, XLSX, PPTX or text file"
// @Success      202   {object}  api.DocumentUploadResponse  "Accepted"
// @Failure      400   {object}  api.ErrorResponse           "Missing file or file too large"
// @Failure      500   {object}  api.ErrorResponse           "Storage error"
// @Router       /documents [post]
func (h *Handler) PostDocument(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "file is required")
		return
	}
	defer fileReader.Close()

	doc, err := h.documents.Save(r.Context(), fileMetadata.Filename, fileMetadata.Header.Get("Content-Type"), fileReader)
	if err != nil {
		writeAppError(w, r, "", err)
		return
	}

	queued, ok := h.enqueue(w, r, jobModel.JobTypeIngest, jobModel.JobPayload{DocumentId: doc.Id})
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusAccepted, api.DocumentUploadResponse{Document: doc, Job: adapter.ToInitJobResponse(queued.Id)})
}

// GetDocuments godoc
// @Summary      List documents
// @Description  All documents, newest first.
// @Tags         Documents
// @Produce      json
// @Success      200  {array}  corpusModel.Document
// @Router       /documents [get]
func (h *Handler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	docs, err := h.documents.List(r.Context())
	if err != nil {
		writeAppError(w, r, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, docs)
}
