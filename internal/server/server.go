package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/handlers"
	"github.com/akolanti/QuestionnaireAPI/internal/middleware"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var logger = logger_i.NewLogger("Server")

// Server is the http front of the api. Run blocks until its context ends and the
// listener has drained.
type Server struct {
	http *http.Server
}

// RegisterRoutes mounts the api on r. mcp may be nil.
func RegisterRoutes(r chi.Router, h *handlers.Handler, mcp http.Handler) {
	r.Get("/health", middleware.Wrap(h.Health))

	r.Post("/documents", middleware.Wrap(h.PostDocument))
	r.Get("/documents", middleware.Wrap(h.GetDocuments))

	r.Post("/projects", middleware.Wrap(h.PostProject))
	r.Get("/projects", middleware.Wrap(h.GetProjects))
	r.Get("/projects/{id}", middleware.Wrap(h.GetProject))
	r.Patch("/projects/{id}", middleware.Wrap(h.PatchProject))
	r.Post("/projects/{id}/generate", middleware.Wrap(h.PostGenerate))
	r.Get("/projects/{id}/questions", middleware.Wrap(h.GetQuestions))
	r.Get("/projects/{id}/answers", middleware.Wrap(h.GetAnswers))
	r.Post("/projects/{id}/evaluate", middleware.Wrap(h.PostEvaluate))

	r.Patch("/answers/{id}/review", middleware.Wrap(h.PatchReview))
	r.Get("/evaluations/{id}", middleware.Wrap(h.GetEvaluation))

	r.Post("/chat", middleware.Wrap(h.PostChat))
	r.Get("/chat/{chatId}/history", middleware.Wrap(h.GetChatHistory))
	r.Get("/status/{id}", middleware.Wrap(h.GetStatus))

	if mcp != nil {
		r.Handle("/mcp", mcp)
	}
}

func New(listenAddr string, h *handlers.Handler, mcp http.Handler) *Server {
	r := utils.NewRouter()
	RegisterRoutes(r, h, mcp)
	return &Server{http: &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}}
}

func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then stops accepting connections and waits up to
// the shutdown timeout for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	failed := make(chan error, 1)
	go func() {
		logger.Info("Server is listening", "address", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ShutdownContextTimeout)
	defer cancel()
	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
