// Package watcher ingests files dropped into an inbox directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/fsnotify/fsnotify"
)

const defaultSettle = 500 * time.Millisecond

type Registrar interface {
	Adopt(ctx context.Context, srcPath string) (corpusModel.Document, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, jobType jobModel.JobType, payload jobModel.JobPayload) (jobModel.Job, error)
}

// Watcher moves new inbox files into storage and queues their ingestion. A file is picked
// up once no write event arrived for the settle period.
type Watcher struct {
	dir    string
	docs   Registrar
	jobs   JobQueue
	settle time.Duration
	logger *logger_i.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(dir string, docs Registrar, jobs JobQueue) *Watcher {
	return &Watcher{
		dir:     dir,
		docs:    docs,
		jobs:    jobs,
		settle:  defaultSettle,
		logger:  logger_i.NewLogger("Inbox Watcher").With("inbox", dir),
		pending: make(map[string]*time.Timer),
	}
}

// Run blocks until ctx is done. Files already in the inbox are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return fmt.Errorf("creating inbox %s: %w", w.dir, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("Watching inbox")

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading inbox: %w", err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			w.schedule(ctx, filepath.Join(w.dir, entry.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func ignored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".part")
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	if ignored(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	doc, err := w.docs.Adopt(ctx, path)
	if err != nil {
		w.logger.Error("Could not register inbox file", "path", path, "error", err)
		return
	}
	queued, err := w.jobs.Enqueue(ctx, jobModel.JobTypeIngest, jobModel.JobPayload{DocumentId: doc.Id})
	if err != nil {
		w.logger.Error("Could not queue ingestion", "documentId", doc.Id, "error", err)
		return
	}
	w.logger.Info("Inbox file queued", "documentId", doc.Id, "jobId", queued.Id, "filename", doc.Filename)
}
