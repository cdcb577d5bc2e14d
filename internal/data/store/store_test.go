package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/data/redisStore"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T, prefix string) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	db := redisStore.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { _ = db.Close() })
	return mr, db
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, rs := newRedis(t, JobKeyPrefix)
	jobStore := NewRedisJobStore(rs)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeGenerate,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			ProjectId: "p-1",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.ProjectId != "p-1" || retrievedJob.JobType != jobModel.JobTypeGenerate {
			t.Errorf("Data mismatch! Got %+v", retrievedJob)
		}
		if ttl := mr.TTL("job:" + jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("ttl = %v, want %v", ttl, config.RedisJobStoreTTL)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt record is not found", func(t *testing.T) {
		mr.Set("job:broken", "{not json")
		if _, found := jobStore.GetJob(ctx, "broken"); found {
			t.Error("Expected found=false for corrupt record")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("job:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, rs := newRedis(t, JobKeyPrefix)
	jobStore := NewRedisJobStore(rs)
	ctx := context.Background()
	job := jobModel.Job{Id: "race-job"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("job lost under concurrent writes")
	}
}

func TestRedisTranscriptStore(t *testing.T) {
	mr, rs := newRedis(t, ChatKeyPrefix)
	ts := NewRedisTranscriptStore(rs)
	ctx := context.Background()

	for _, q := range []string{"first", "second"} {
		if err := ts.AppendTurn(ctx, "c1", jobModel.ChatAnswer{Query: q, AnswerText: "a " + q, Answerable: true}); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	turns, err := ts.GetTranscript(ctx, "c1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if len(turns) != 2 || turns[0].Query != "first" || turns[1].AnswerText != "a second" {
		t.Errorf("unexpected transcript %+v", turns)
	}
	if ttl := mr.TTL("chat:c1"); ttl <= 0 || ttl > config.RedisTranscriptStoreTTL {
		t.Errorf("transcript ttl not refreshed: %v", ttl)
	}
	if n, _ := mr.List("chat:c1"); len(n) != 2 {
		t.Errorf("expected 2 stored turns, got %d", len(n))
	}

	empty, err := ts.GetTranscript(ctx, "unknown")
	if err != nil || len(empty) != 0 {
		t.Errorf("unknown chat: %v %v", empty, err)
	}
}

func TestRedisTranscriptStore_Limit(t *testing.T) {
	mr, rs := newRedis(t, ChatKeyPrefix)
	ts := NewRedisTranscriptStore(rs)
	ctx := context.Background()

	for i := 0; i < config.TranscriptHistoryLimit+5; i++ {
		_ = ts.AppendTurn(ctx, "long", jobModel.ChatAnswer{Query: time.Duration(i).String()})
	}
	turns, err := ts.GetTranscript(ctx, "long")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != config.TranscriptHistoryLimit {
		t.Fatalf("got %d turns", len(turns))
	}
	if stored, _ := mr.List("chat:long"); len(stored) != config.TranscriptHistoryLimit {
		t.Errorf("list not capped, holds %d turns", len(stored))
	}
	if turns[len(turns)-1].Query != time.Duration(config.TranscriptHistoryLimit+4).String() {
		t.Errorf("latest turn missing, last = %q", turns[len(turns)-1].Query)
	}
}

func TestInMemoryStores(t *testing.T) {
	ctx := context.Background()
	jobs := InitInMemoryJobStore()
	_ = jobs.SaveJob(ctx, jobModel.Job{Id: "j1", Status: jobModel.JobStatusQueued})
	if j, ok := jobs.GetJob(ctx, "j1"); !ok || j.Status != jobModel.JobStatusQueued {
		t.Errorf("in memory job not stored: %+v %v", j, ok)
	}
	jobs.DeleteJob(ctx, "j1")
	if _, ok := jobs.GetJob(ctx, "j1"); ok {
		t.Error("job still present after delete")
	}

	ts := InitInMemoryTranscriptStore()
	for i := 0; i < config.TranscriptHistoryLimit+1; i++ {
		_ = ts.AppendTurn(ctx, "c", jobModel.ChatAnswer{Query: "q"})
	}
	turns, _ := ts.GetTranscript(ctx, "c")
	if len(turns) != config.TranscriptHistoryLimit {
		t.Errorf("got %d turns", len(turns))
	}
}

func TestInMemoryJobStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Unix(1_700_000_000, 0)
	jobs := InitInMemoryJobStore()
	jobs.now = func() time.Time { return clock }

	_ = jobs.SaveJob(ctx, jobModel.Job{Id: "old"})
	clock = clock.Add(config.RedisJobStoreTTL + time.Second)
	if _, ok := jobs.GetJob(ctx, "old"); ok {
		t.Error("expired job still visible")
	}

	_ = jobs.SaveJob(ctx, jobModel.Job{Id: "new"})
	if len(jobs.jobs) != 1 {
		t.Errorf("expired records not swept on save, have %d", len(jobs.jobs))
	}
	if _, ok := jobs.GetJob(ctx, "new"); !ok {
		t.Error("fresh job missing")
	}
}
