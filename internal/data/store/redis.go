package store

import (
	"context"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/data/redisStore"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

const (
	JobKeyPrefix  = "job:"
	ChatKeyPrefix = "chat:"
)

// RedisJobStore keeps each job as one json document with a ttl.
type RedisJobStore struct {
	db  *redisStore.Store
	log *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context, opts redisStore.Options) (*RedisJobStore, error) {
	db, err := redisStore.Open(ctx, opts, config.RedisJobStore, JobKeyPrefix)
	if err != nil {
		return nil, err
	}
	return NewRedisJobStore(db), nil
}

func NewRedisJobStore(db *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{db: db, log: logger_i.NewLogger("JobStore")}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if err := redisStore.PutJSON(ctx, s.db, j.Id, j, config.RedisJobStoreTTL); err != nil {
		s.log.WithTrace(ctx, config.TRACE_ID_KEY).Error("Saving job", "jobId", j.Id, "error", err)
		return err
	}
	return nil
}

// GetJob treats unreadable records like missing ones; the error is logged.
func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	j, found, err := redisStore.GetJSON[jobModel.Job](ctx, s.db, jobId)
	if err != nil {
		s.log.WithTrace(ctx, config.TRACE_ID_KEY).Error("Reading job", "jobId", jobId, "error", err)
		return jobModel.Job{}, false
	}
	return j, found
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobId string) {
	if err := s.db.Delete(ctx, jobId); err != nil {
		s.log.Error("Deleting job", "jobId", jobId, "error", err)
	}
}

func (s *RedisJobStore) Close() error { return s.db.Close() }

// RedisTranscriptStore keeps each chat as a capped redis list of json turns.
type RedisTranscriptStore struct {
	db  *redisStore.Store
	log *logger_i.Logger
}

func GetRedisTranscriptStore(ctx context.Context, opts redisStore.Options) (*RedisTranscriptStore, error) {
	db, err := redisStore.Open(ctx, opts, config.RedisTranscriptStore, ChatKeyPrefix)
	if err != nil {
		return nil, err
	}
	return NewRedisTranscriptStore(db), nil
}

func NewRedisTranscriptStore(db *redisStore.Store) *RedisTranscriptStore {
	return &RedisTranscriptStore{db: db, log: logger_i.NewLogger("TranscriptStore")}
}

func (s *RedisTranscriptStore) AppendTurn(ctx context.Context, chatId string, turn jobModel.ChatAnswer) error {
	err := redisStore.AppendJSON(ctx, s.db, chatId, turn, config.RedisTranscriptStoreTTL, int64(config.TranscriptHistoryLimit))
	if err != nil {
		s.log.WithTrace(ctx, config.TRACE_ID_KEY).Error("Saving chat turn", "chatId", chatId, "error", err)
	}
	return err
}

func (s *RedisTranscriptStore) GetTranscript(ctx context.Context, chatId string) ([]jobModel.ChatAnswer, error) {
	return redisStore.TailJSON[jobModel.ChatAnswer](ctx, s.db, chatId, int64(config.TranscriptHistoryLimit))
}

func (s *RedisTranscriptStore) Close() error { return s.db.Close() }
