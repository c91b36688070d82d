package cli

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/memory"
	"timed-quiz-service/internal/infra/opentdb"
	pgloader "timed-quiz-service/internal/infra/postgres"
	redisinfra "timed-quiz-service/internal/infra/redis"
)

// backends holds the optional infrastructure clients built from config.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func connectBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, err
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// questionProvider picks the question source (postgres bank, offline sample bank, or Open
// Trivia DB) and wraps it in a cache when quiz.cacheTTL is set.
func questionProvider(cfg config.Config, b *backends) app.QuestionProvider {
	var provider app.QuestionProvider
	switch {
	case b.pool != nil:
		log.Printf("questions: postgres bank")
		provider = pgloader.NewQuestionLoader(b.pool)
	case cfg.OpenTDB.Offline:
		log.Printf("questions: built-in sample bank")
		provider = memory.NewStaticProvider(memory.SampleQuestions())
	default:
		timeout := config.TTLDuration(cfg.OpenTDB.Timeout, 5*time.Second)
		log.Printf("questions: open trivia db (timeout %s)", timeout)
		provider = opentdb.NewClient(&http.Client{Timeout: timeout}, cfg.OpenTDB.BaseURL)
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 0)
	if cacheTTL <= 0 {
		return provider
	}
	if b.redis != nil {
		return redisinfra.NewQuestionCache(b.redis, provider, cacheTTL)
	}
	return memory.NewQuestionCache(provider, cacheTTL)
}
