package middleware

import (
	"context"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
)

const TraceHeader = "X-Trace-Id"

// maxTraceLen caps caller supplied trace ids before they reach logs and job records.
const maxTraceLen = 128

func withTrace(s *scope) *rejection {
	if s.r == nil {
		return &rejection{code: http.StatusBadRequest, message: "request is empty"}
	}
	trace := s.r.Header.Get(TraceHeader)
	if trace == "" || len(trace) > maxTraceLen {
		trace = utils.GetNewUUID()
	}

	s.r.Header.Set(TraceHeader, trace)
	s.w.Header().Set(TraceHeader, trace)
	s.r = s.r.WithContext(context.WithValue(s.r.Context(), config.TRACE_ID_KEY, trace))
	s.log = s.log.With("traceId", trace)
	return nil
}
