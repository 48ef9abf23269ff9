package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"stackmaster-quiz-service/internal/domain"
)

// TransientResults is the Redis-backed single-slot handoff: one pending
// result per user under pending:{userID}, consumed with GETDEL. The TTL
// bounds how long an unviewed submission survives.
type TransientResults struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTransientResults(client *redis.Client, ttl time.Duration) *TransientResults {
	return &TransientResults{client: client, ttl: ttl}
}

func (t *TransientResults) Put(ctx context.Context, userID string, result domain.AttemptResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return t.client.Set(ctx, pendingKey(userID), data, t.ttl).Err()
}

func (t *TransientResults) Take(ctx context.Context, userID string) (domain.AttemptResult, bool, error) {
	data, err := t.client.GetDel(ctx, pendingKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AttemptResult{}, false, nil
	}
	if err != nil {
		return domain.AttemptResult{}, false, err
	}

	var r domain.AttemptResult
	if err := json.Unmarshal(data, &r); err != nil {
		// Slot already cleared by GETDEL; treat corrupt data as absent.
		log.Printf("discarding corrupt pending result for %s: %v", userID, err)
		return domain.AttemptResult{}, false, nil
	}
	return r, true, nil
}

func pendingKey(userID string) string {
	return "pending:" + userID
}
