package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"stackmaster-quiz-service/internal/domain"
)

// ResultStore keeps attempt results as JSONB documents in Postgres.
// Append-only: no UPDATE or DELETE is issued anywhere in this type.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Append(ctx context.Context, result domain.AttemptResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO attempt_results (id, user_id, quiz_id, submitted_at, data) VALUES ($1, $2, $3, $4, $5)`,
		result.ID, result.UserID, result.QuizID, result.SubmittedAt, data)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ResultStore) ByUser(ctx context.Context, userID string) ([]domain.AttemptResult, error) {
	return s.query(ctx,
		`SELECT id, data FROM attempt_results WHERE user_id=$1 ORDER BY submitted_at DESC`,
		userID)
}

func (s *ResultStore) ByUserAndQuiz(ctx context.Context, userID, quizID string) ([]domain.AttemptResult, error) {
	return s.query(ctx,
		`SELECT id, data FROM attempt_results WHERE user_id=$1 AND quiz_id=$2 ORDER BY submitted_at DESC`,
		userID, quizID)
}

func (s *ResultStore) ByID(ctx context.Context, resultID string) (domain.AttemptResult, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM attempt_results WHERE id=$1`, resultID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AttemptResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.AttemptResult{}, fmt.Errorf("load result: %w", err)
	}

	var r domain.AttemptResult
	if err := json.Unmarshal(raw, &r); err != nil {
		log.Printf("corrupt result %s: %v", resultID, err)
		return domain.AttemptResult{}, domain.ErrResultNotFound
	}
	return r, nil
}

func (s *ResultStore) query(ctx context.Context, stmt string, args ...interface{}) ([]domain.AttemptResult, error) {
	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.AttemptResult, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r domain.AttemptResult
		if err := json.Unmarshal(raw, &r); err != nil {
			// Fail open: skip the corrupt row instead of losing the
			// whole history.
			log.Printf("skipping corrupt result %s: %v", id, err)
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
