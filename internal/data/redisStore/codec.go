package redisStore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PutJSON stores v under id, replacing whatever was there.
func PutJSON(ctx context.Context, s *Store, id string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.Key(id), err)
	}
	return s.client.Set(ctx, s.Key(id), data, ttl).Err()
}

// GetJSON loads the document under id. found is false for a missing key.
func GetJSON[T any](ctx context.Context, s *Store, id string) (v T, found bool, err error) {
	raw, err := s.client.Get(ctx, s.Key(id)).Bytes()
	if IsMissing(err) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s: %w", s.Key(id), err)
	}
	return v, true, nil
}

// AppendJSON pushes v to the tail of the list under id and refreshes its ttl. When keep
// is positive the list is trimmed to its newest keep entries in the same transaction.
func AppendJSON(ctx context.Context, s *Store, id string, v any, ttl time.Duration, keep int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.Key(id), err)
	}
	key := s.Key(id)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if keep > 0 {
		pipe.LTrim(ctx, key, -keep, -1)
	}
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// TailJSON decodes at most n trailing entries of the list under id, oldest first.
// n <= 0 returns the whole list.
func TailJSON[T any](ctx context.Context, s *Store, id string, n int64) ([]T, error) {
	start := int64(0)
	if n > 0 {
		start = -n
	}
	raw, err := s.client.LRange(ctx, s.Key(id), start, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, fmt.Errorf("entry %d of %s: %w", i, s.Key(id), err)
		}
		out = append(out, v)
	}
	return out, nil
}
