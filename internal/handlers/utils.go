package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
)

const traceKey = config.TRACE_ID_KEY

// maxJSONBody bounds every json request body.
const maxJSONBody = 1 << 20

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func writeAppError(w http.ResponseWriter, r *http.Request, id string, err error) {
	code, res := adapter.FromError(id, err)
	log := logRH.WithTrace(r.Context(), traceKey).With("path", r.URL.Path, "code", code)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Warn("Request rejected", "error", err)
	}
	writeJsonResponse(w, code, res)
}

func validateContext(r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		logRH.WithTrace(r.Context(), traceKey).Warn("context error", "error", err, "remote", r.RemoteAddr)
		return false
	}
	return true
}

// decodeJSON rejects malformed bodies with a 400. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		logRH.WithTrace(r.Context(), traceKey).Warn("Bad request body", "path", r.URL.Path, "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
