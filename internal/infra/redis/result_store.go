package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"stackmaster-quiz-service/internal/domain"
)

// ResultStore keeps attempt results in Redis:
//
//	SET  result:{resultID}        {AttemptResult JSON}
//	ZADD results:user:{userID}    score=submit unix time, member=resultID
//
// Append is the only mutation; queries read the per-user index newest first.
// Records that fail to parse are skipped rather than failing the query.
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) Append(ctx context.Context, result domain.AttemptResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, resultKey(result.ID), data, 0)
	pipe.ZAdd(ctx, userIndexKey(result.UserID), redis.Z{
		Score:  float64(result.SubmittedAt.Unix()),
		Member: result.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *ResultStore) ByUser(ctx context.Context, userID string) ([]domain.AttemptResult, error) {
	ids, err := s.client.ZRevRange(ctx, userIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]domain.AttemptResult, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, resultKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var r domain.AttemptResult
		if err := json.Unmarshal(data, &r); err != nil {
			// Fail open: a corrupt record costs one history row, not
			// the whole store.
			log.Printf("skipping corrupt result %s: %v", id, err)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *ResultStore) ByUserAndQuiz(ctx context.Context, userID, quizID string) ([]domain.AttemptResult, error) {
	all, err := s.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.AttemptResult, 0, len(all))
	for _, r := range all {
		if r.QuizID == quizID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *ResultStore) ByID(ctx context.Context, resultID string) (domain.AttemptResult, error) {
	data, err := s.client.Get(ctx, resultKey(resultID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AttemptResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.AttemptResult{}, err
	}

	var r domain.AttemptResult
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("corrupt result %s: %v", resultID, err)
		return domain.AttemptResult{}, domain.ErrResultNotFound
	}
	return r, nil
}

func resultKey(resultID string) string {
	return "result:" + resultID
}

func userIndexKey(userID string) string {
	return "results:user:" + userID
}
