package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var memLogger = logger_i.NewLogger("InMem JobStore")

type expiringJob struct {
	job     jobModel.Job
	expires time.Time
}

// InMemoryJobStore backs the job queue when redis is disabled. Records expire after the
// same ttl redis would apply.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]expiringJob
	ttl  time.Duration
	now  func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]expiringJob),
		ttl:  config.RedisJobStoreTTL,
		now:  time.Now,
	}
}

// SaveJob also drops expired records so the map does not grow without bound.
func (m *InMemoryJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.jobs {
		if now.After(e.expires) {
			delete(m.jobs, id)
		}
	}
	m.jobs[j.Id] = expiringJob{job: j, expires: now.Add(m.ttl)}
	memLogger.Debug("Saved job", "jobId", j.Id, "status", j.Status)
	return nil
}

func (m *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[jobId]
	if !ok || m.now().After(e.expires) {
		return jobModel.Job{}, false
	}
	return e.job, true
}

func (m *InMemoryJobStore) DeleteJob(ctx context.Context, jobId string) {
	m.mu.Lock()
	delete(m.jobs, jobId)
	m.mu.Unlock()
}

// InMemoryTranscriptStore keeps only the turns GetTranscript can return.
type InMemoryTranscriptStore struct {
	mu    sync.RWMutex
	chats map[string][]jobModel.ChatAnswer
	keep  int
}

func InitInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		chats: make(map[string][]jobModel.ChatAnswer),
		keep:  config.TranscriptHistoryLimit,
	}
}

func (m *InMemoryTranscriptStore) AppendTurn(ctx context.Context, chatId string, turn jobModel.ChatAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns := append(m.chats[chatId], turn)
	if over := len(turns) - m.keep; over > 0 {
		turns = append([]jobModel.ChatAnswer(nil), turns[over:]...)
	}
	m.chats[chatId] = turns
	return nil
}

// GetTranscript returns a copy of the turns, oldest first. Unknown chats have none.
func (m *InMemoryTranscriptStore) GetTranscript(ctx context.Context, chatId string) ([]jobModel.ChatAnswer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]jobModel.ChatAnswer{}, m.chats[chatId]...), nil
}
