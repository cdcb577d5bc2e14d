// Package redisStore is the thin layer over go-redis shared by the job and transcript
// stores. Values are json documents; lists keep their oldest entry at the head.
package redisStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var logger = logger_i.NewLogger("Redis Store")

const (
	pingTimeout = 3 * time.Second
	ioTimeout   = 30 * time.Second
)

type Options struct {
	Addr     string
	Password string
}

// Store is one logical redis database. Keys are namespaced with prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to db and fails fast when redis does not answer a ping.
func Open(ctx context.Context, opts Options, db int, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           ioTimeout,
		WriteTimeout:          ioTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", opts.Addr, db, err)
	}
	logger.Info("Connected to redis", "addr", opts.Addr, "db", db, "prefix", prefix)
	return &Store{client: client, prefix: prefix}, nil
}

// Wrap uses an existing client, e.g. one pointed at miniredis.
func Wrap(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Key(id string) string {
	return s.prefix + id
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.Key(id)).Err()
}

// IsMissing reports whether err means the key does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}
