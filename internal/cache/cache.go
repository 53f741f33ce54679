package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// ErrMiss is returned by Get when no entry is cached for the quiz.
var ErrMiss = errors.New("cache miss")

// ErrStale is returned by Set when the quiz was invalidated after the
// generation passed to Set was read. Nothing is written.
var ErrStale = errors.New("cache entry superseded")

// Generation counts invalidations of one quiz's entry. A fill is only
// accepted at the generation it was read under.
type Generation int64

// QuestionCache holds the full, unredacted question tree of a quiz.
type QuestionCache interface {
	// Get returns the cached tree, or ErrMiss together with the generation a
	// following Set has to present.
	Get(ctx context.Context, quizID uint) ([]model.Question, Generation, error)
	Set(ctx context.Context, quizID uint, gen Generation, questions []model.Question) error
	Invalidate(ctx context.Context, quizID uint) error
}

// NewQuestionCache returns a Redis-backed cache, or a no-op cache when no
// Redis address is configured.
func NewQuestionCache(lc fx.Lifecycle, cfg *config.Config) QuestionCache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("Question cache disabled")
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, cache reads will fall back to the database")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("Question cache enabled")
	return NewRedisQuestionCache(client, cfg.Redis.TTL)
}

type redisQuestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuestionCache(client *redis.Client, ttl time.Duration) QuestionCache {
	return &redisQuestionCache{client: client, ttl: ttl}
}

func questionsKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:questions", quizID)
}

// generationKey never expires; resetting it could let an old fill match again.
func generationKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:generation", quizID)
}

func readGeneration(cmd *redis.StringCmd) (Generation, error) {
	n, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return Generation(n), nil
}

func (c *redisQuestionCache) Get(ctx context.Context, quizID uint) ([]model.Question, Generation, error) {
	var genCmd, treeCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		genCmd = p.Get(ctx, generationKey(quizID))
		treeCmd = p.Get(ctx, questionsKey(quizID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, err
	}

	gen, err := readGeneration(genCmd)
	if err != nil {
		return nil, 0, fmt.Errorf("read cache generation: %w", err)
	}
	raw, err := treeCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, ErrMiss
	}
	if err != nil {
		return nil, 0, err
	}
	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, 0, fmt.Errorf("decode cached questions: %w", err)
	}
	return questions, gen, nil
}

// Set writes the tree only while the quiz is still at gen. The generation key
// is watched, so an Invalidate racing the write aborts it.
func (c *redisQuestionCache) Set(ctx context.Context, quizID uint, gen Generation, questions []model.Question) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	genKey := generationKey(quizID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(tx.Get(ctx, genKey))
		if err != nil {
			return err
		}
		if current != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, questionsKey(quizID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Invalidate drops the entry and advances the generation in one transaction.
func (c *redisQuestionCache) Invalidate(ctx context.Context, quizID uint) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, generationKey(quizID))
		p.Del(ctx, questionsKey(quizID))
		return nil
	})
	return err
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, uint) ([]model.Question, Generation, error) { return nil, 0, ErrMiss }
func (Noop) Set(context.Context, uint, Generation, []model.Question) error { return nil }
func (Noop) Invalidate(context.Context, uint) error { return nil }
