package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	provider := &countingProvider{QuestionProvider: memory.NewStaticProvider(memory.SampleQuestions())}
	cache := NewQuestionCache(client, provider, time.Minute)

	first, err := cache.FetchQuestions(context.Background(), domain.DifficultyEasy, 4)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if provider.calls != 1 || len(first) != 4 {
		t.Fatalf("expected provider once with 4 questions, got calls=%d len=%d", provider.calls, len(first))
	}
	if !mr.Exists("quiz:questions:easy:4") {
		t.Fatalf("expected batch stored in redis")
	}

	// Second call should hit cache, provider not incremented.
	second, err := cache.FetchQuestions(context.Background(), domain.DifficultyEasy, 4)
	if err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected cache hit, provider calls=%d", provider.calls)
	}
	if second[0].CorrectAnswer != first[0].CorrectAnswer || len(second[0].IncorrectAnswers) != 3 {
		t.Fatalf("cached batch did not round trip: %+v", second[0])
	}

	mr.FastForward(2 * time.Minute)
	_, _ = cache.FetchQuestions(context.Background(), domain.DifficultyEasy, 4)
	if provider.calls != 2 {
		t.Fatalf("expected refetch after ttl, provider calls=%d", provider.calls)
	}
}

func TestQuestionCacheIgnoresEmptyBatches(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuestionCache(newClient(mr), memory.NewStaticProvider(nil), time.Minute)
	questions, err := cache.FetchQuestions(context.Background(), domain.DifficultyHard, 3)
	if err != nil || len(questions) != 0 {
		t.Fatalf("expected empty batch, got %v %v", questions, err)
	}
	if mr.Exists("quiz:questions:hard:3") {
		t.Fatalf("empty batch must not be cached")
	}
}

type countingProvider struct {
	app.QuestionProvider
	calls int
}

func (p *countingProvider) FetchQuestions(ctx context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	p.calls++
	return p.QuestionProvider.FetchQuestions(ctx, difficulty, count)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
