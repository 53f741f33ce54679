package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/database/databasetest"
	"github.com/lshigami/quizzer/internal/cache"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/repository"
	"gorm.io/gorm"
)

type services struct {
	db        *gorm.DB
	cache     *memCache
	quizzes   QuizService
	questions QuestionService
	evaluator EvaluationService
}

func newServices(t *testing.T) *services {
	t.Helper()
	mc := newMemCache()
	s := newServicesWithCache(t, mc, 2*time.Second)
	s.cache = mc
	return s
}

// newServicesWithCache wires the services over qc; s.cache stays nil.
func newServicesWithCache(t *testing.T, qc cache.QuestionCache, queryTimeout time.Duration) *services {
	t.Helper()
	db := databasetest.Open(t)
	cfg := &config.Config{Database: config.Database{QueryTimeout: queryTimeout}}

	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	return &services{
		db:        db,
		quizzes:   NewQuizService(quizRepo, submissionRepo, qc, cfg),
		questions: NewQuestionService(db, quizRepo, questionRepo, qc, cfg),
		evaluator: NewEvaluationService(quizRepo, questionRepo, submissionRepo, cfg),
	}
}

func (s *services) mustQuiz(t *testing.T, title string) *model.Quiz {
	t.Helper()
	quiz, err := s.quizzes.CreateQuiz(context.Background(), title, "")
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (s *services) mustQuestion(t *testing.T, quizID uint, in NewQuestion) *model.Question {
	t.Helper()
	q, err := s.questions.AddQuestion(context.Background(), quizID, in)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	return q
}

func (s *services) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", m, err)
	}
	return n
}

// failNthCreate makes the nth insert into table fail before it reaches the
// database.
func failNthCreate(t *testing.T, db *gorm.DB, table string, n int) {
	t.Helper()
	seen := 0
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		seen++
		if seen == n {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func singleChoice(text string, correct int, options ...string) NewQuestion {
	q := NewQuestion{Text: text, Type: model.SingleChoice}
	for i, o := range options {
		q.Options = append(q.Options, NewOption{Text: o, IsCorrect: i == correct})
	}
	return q
}

func multipleChoice(text string, correct []int, options ...string) NewQuestion {
	q := NewQuestion{Text: text, Type: model.MultipleChoice}
	for i, o := range options {
		isCorrect := false
		for _, c := range correct {
			if c == i {
				isCorrect = true
			}
		}
		q.Options = append(q.Options, NewOption{Text: o, IsCorrect: isCorrect})
	}
	return q
}

type memCache struct {
	mu          sync.Mutex
	data        map[uint][]model.Question
	gens        map[uint]cache.Generation
	hits        int
	invalidated []uint
}

func newMemCache() *memCache {
	return &memCache{
		data: make(map[uint][]model.Question),
		gens: make(map[uint]cache.Generation),
	}
}

func (c *memCache) Get(_ context.Context, quizID uint) ([]model.Question, cache.Generation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.data[quizID]
	if !ok {
		return nil, c.gens[quizID], cache.ErrMiss
	}
	c.hits++
	return q, c.gens[quizID], nil
}

func (c *memCache) Set(_ context.Context, quizID uint, gen cache.Generation, questions []model.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[quizID] != gen {
		return cache.ErrStale
	}
	c.data[quizID] = questions
	return nil
}

func (c *memCache) Invalidate(_ context.Context, quizID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, quizID)
	c.gens[quizID]++
	c.invalidated = append(c.invalidated, quizID)
	return nil
}

// interleavingCache runs beforeSet once, right before the next fill.
type interleavingCache struct {
	cache.QuestionCache
	beforeSet func()
}

func (c *interleavingCache) Set(ctx context.Context, quizID uint, gen cache.Generation, questions []model.Question) error {
	if f := c.beforeSet; f != nil {
		c.beforeSet = nil
		f()
	}
	return c.QuestionCache.Set(ctx, quizID, gen, questions)
}

// hangingCache blocks every call until its context is done.
type hangingCache struct{}

func (hangingCache) Get(ctx context.Context, _ uint) ([]model.Question, cache.Generation, error) {
	<-ctx.Done()
	return nil, 0, ctx.Err()
}

func (hangingCache) Set(ctx context.Context, _ uint, _ cache.Generation, _ []model.Question) error {
	<-ctx.Done()
	return ctx.Err()
}

func (hangingCache) Invalidate(ctx context.Context, _ uint) error {
	<-ctx.Done()
	return ctx.Err()
}
