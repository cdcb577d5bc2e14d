package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/QuestionnaireAPI/internal/bootstrap"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/handlers"
	"github.com/akolanti/QuestionnaireAPI/internal/job"
	"github.com/akolanti/QuestionnaireAPI/internal/middleware"
	"github.com/akolanti/QuestionnaireAPI/internal/server"
	"github.com/akolanti/QuestionnaireAPI/internal/watcher"
	"github.com/akolanti/QuestionnaireAPI/internal/worker"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var (
	configPath string
	listenAddr string
)

func main() {
	flag.StringVar(&configPath, "config", "", "yaml or toml config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the config")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.Init(config.Default().SlogLevel(), false)
		logger_i.NewLogger("main").Error("Could not load configuration", "error", err)
		os.Exit(1)
	}
	logger_i.Init(settings.SlogLevel(), settings.IsProd())
	var logger = logger_i.NewLogger("main")
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}

	serviceContext, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(serviceContext, settings)
	if err != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	middleware.InitRateLimiter(settings.RateLimit.RPS, settings.RateLimit.Burst)
	worker.SetMaxWorkers(settings.Workers.Max)

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, config.BufferLimit),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          app.JobStore,
		TranscriptStore:   app.Transcripts,
	})

	stopWorkers := make(chan bool)
	var workers sync.WaitGroup
	worker.InitServices(service, app.RAGService())
	worker.InitWorkerPool(stopWorkers, &workers)

	handler := handlers.NewHandler(handlers.Dependencies{
		Jobs:        service,
		Documents:   app.Documents,
		Projects:    app.Projects,
		Evaluator:   app.Evaluator,
		Evaluations: app.Store,
		Transcripts: app.Transcripts,
	})

	mcp, err := app.MCPServer()
	if err != nil {
		logger.Error("Could not build mcp server", "error", err)
		os.Exit(1)
	}

	if settings.InboxPath != "" {
		inbox := watcher.New(settings.InboxPath, app.Documents, service)
		go func() {
			if err := inbox.Run(serviceContext); err != nil {
				logger.Error("Inbox watcher stopped", "error", err, "dir", settings.InboxPath)
			}
		}()
	}

	err = server.New(settings.ListenAddr, handler, mcp.Handler()).Run(serviceContext)
	if err != nil {
		logger.Error("Server stopped with error", "error", err)
	}

	close(stopWorkers)
	workers.Wait()
	if err := app.Close(); err != nil {
		logger.Warn("Closing services", "error", err)
	}
	logger.Info("Server stopped")
	if err != nil {
		os.Exit(1)
	}
}
