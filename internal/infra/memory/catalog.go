package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stackmaster-quiz-service/internal/domain"
)

// CatalogLoader fetches the quiz catalog from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.QuizDefinition, error)
}

// Catalog caches the quiz catalog with a TTL to avoid repeated store hits.
type Catalog struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	quizzes   []domain.QuizDefinition
	expiresAt time.Time
}

func NewCatalog(loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ListQuizzes returns the catalog, loading it through singleflight on a
// cache miss so concurrent callers share one load.
func (c *Catalog) ListQuizzes(ctx context.Context) ([]domain.QuizDefinition, error) {
	now := c.clock()

	c.mu.RLock()
	if c.quizzes != nil && c.expiresAt.After(now) {
		quizzes := c.quizzes
		c.mu.RUnlock()
		return quizzes, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.quizzes != nil && c.expiresAt.After(now) {
			quizzes := c.quizzes
			c.mu.RUnlock()
			return quizzes, nil
		}
		c.mu.RUnlock()

		quizzes, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.quizzes = quizzes
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizDefinition), nil
}

// GetQuiz returns one catalog entry by ID.
func (c *Catalog) GetQuiz(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	quizzes, err := c.ListQuizzes(ctx)
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	for _, q := range quizzes {
		if q.ID == quizID {
			return q, nil
		}
	}
	return domain.QuizDefinition{}, domain.ErrQuizNotFound
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves a fixed catalog (useful for tests/demos and the
// no-database mode).
type StaticCatalogLoader struct {
	quizzes []domain.QuizDefinition
}

func NewStaticCatalogLoader(quizzes []domain.QuizDefinition) *StaticCatalogLoader {
	return &StaticCatalogLoader{quizzes: quizzes}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.QuizDefinition, error) {
	out := make([]domain.QuizDefinition, len(l.quizzes))
	copy(out, l.quizzes)
	return out, nil
}
