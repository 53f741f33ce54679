package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/internal/apperr"
	"github.com/lshigami/quizzer/internal/cache"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
)

type QuizService interface {
	CreateQuiz(ctx context.Context, title, description string) (*model.Quiz, error)
	ListQuizzes(ctx context.Context) ([]repository.QuizSummary, error)
	GetQuiz(ctx context.Context, id uint) (*repository.QuizSummary, error)
	DeleteQuiz(ctx context.Context, id uint) error
	ListSubmissions(ctx context.Context, quizID uint) ([]model.Submission, error)
}

type quizService struct {
	quizRepo       repository.QuizRepository
	submissionRepo repository.SubmissionRepository
	cache          cache.QuestionCache
	timeout        opTimeout
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	submissionRepo repository.SubmissionRepository,
	questionCache cache.QuestionCache,
	cfg *config.Config,
) QuizService {
	return &quizService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		cache:          questionCache,
		timeout:        timeoutFrom(cfg),
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, title, description string) (*model.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return nil, apperr.Validation("title is required and must be between 1-%d characters", maxTitleLen)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, apperr.Validation("description must not exceed %d characters", maxDescriptionLen)
	}

	ctx, cancel := s.timeout.bound(ctx)
	defer cancel()

	quiz := model.Quiz{Title: title, Description: description}
	if err := s.quizRepo.Create(ctx, &quiz); err != nil {
		log.Error().Err(err).Str("title", title).Msg("Failed to create quiz")
		return nil, apperr.FromDB(fmt.Errorf("create quiz: %w", err))
	}
	return &quiz, nil
}

func (s *quizService) ListQuizzes(ctx context.Context) ([]repository.QuizSummary, error) {
	ctx, cancel := s.timeout.bound(ctx)
	defer cancel()

	quizzes, err := s.quizRepo.FindAllWithQuestionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes with question count")
		return nil, apperr.FromDB(fmt.Errorf("list quizzes: %w", err))
	}
	if quizzes == nil {
		quizzes = []repository.QuizSummary{}
	}
	return quizzes, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id uint) (*repository.QuizSummary, error) {
	ctx, cancel := s.timeout.bound(ctx)
	defer cancel()

	quiz, err := s.quizRepo.FindByIDWithQuestionCount(ctx, id)
	if err != nil {
		err = apperr.FromDB(err)
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound("quiz %d not found", id)
		}
		log.Error().Err(err).Uint("quizID", id).Msg("Failed to get quiz")
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, id uint) error {
	dbCtx, cancel := s.timeout.bound(ctx)
	defer cancel()

	n, err := s.quizRepo.Delete(dbCtx, id)
	if err != nil {
		log.Error().Err(err).Uint("quizID", id).Msg("Failed to delete quiz")
		return apperr.FromDB(fmt.Errorf("delete quiz %d: %w", id, err))
	}
	if n == 0 {
		return apperr.NotFound("quiz %d not found", id)
	}
	cacheCtx, cancelCache := cacheBound(ctx)
	defer cancelCache()
	if err := s.cache.Invalidate(cacheCtx, id); err != nil {
		log.Warn().Err(err).Uint("quizID", id).Msg("Failed to invalidate question cache after delete")
	}
	log.Info().Uint("quizID", id).Msg("Quiz deleted")
	return nil
}

func (s *quizService) ListSubmissions(ctx context.Context, quizID uint) ([]model.Submission, error) {
	ctx, cancel := s.timeout.bound(ctx)
	defer cancel()

	ok, err := s.quizRepo.Exists(ctx, quizID)
	if err != nil {
		return nil, apperr.FromDB(fmt.Errorf("check quiz %d: %w", quizID, err))
	}
	if !ok {
		return nil, apperr.NotFound("quiz %d not found", quizID)
	}
	submissions, err := s.submissionRepo.FindAllByQuizID(ctx, quizID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to list submissions")
		return nil, apperr.FromDB(fmt.Errorf("list submissions: %w", err))
	}
	if submissions == nil {
		submissions = []model.Submission{}
	}
	return submissions, nil
}
