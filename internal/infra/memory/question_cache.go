package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// QuestionCache keeps fetched batches for a TTL so repeated games at the same difficulty
// do not hit the upstream provider every time.
type QuestionCache struct {
	provider app.QuestionProvider
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedBatch
}

type cachedBatch struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(provider app.QuestionProvider, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		provider: provider,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[string]cachedBatch),
	}
}

func (c *QuestionCache) FetchQuestions(ctx context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	key := string(difficulty) + ":" + strconv.Itoa(count)

	if questions, ok := c.lookup(key); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if questions, ok := c.lookup(key); ok {
			return questions, nil
		}

		questions, err := c.provider.FetchQuestions(ctx, difficulty, count)
		if err != nil {
			return nil, err
		}
		// empty batches are not worth remembering
		if len(questions) > 0 {
			expiresAt := c.clock().Add(c.ttlWithJitter())
			c.mu.Lock()
			c.cache[key] = cachedBatch{questions: questions, expiresAt: expiresAt}
			c.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

func (c *QuestionCache) lookup(key string) ([]domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		return copyQuestions(entry.questions), true
	}
	return nil, false
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	copy(out, in)
	return out
}
