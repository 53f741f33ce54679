package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/internal/apperr"
	"github.com/lshigami/quizzer/internal/cache"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxQuestionTextLen = 500
	maxOptionTextLen   = 200
	minWordLimit       = 1
	maxWordLimit       = 300
)

// NewQuestion is the authoring input for AddQuestion. Options keep the order
// they are supplied in.
type NewQuestion struct {
	Text      string
	Type      model.QuestionType
	WordLimit *int
	Options   []NewOption
}

type NewOption struct {
	Text      string
	IsCorrect bool
}

type QuestionService interface {
	AddQuestion(ctx context.Context, quizID uint, in NewQuestion) (*model.Question, error)
	GetQuizQuestions(ctx context.Context, quizID uint) ([]model.Question, error)
}

type questionService struct {
	db           *gorm.DB // For transactions
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	cache        cache.QuestionCache
	timeout      opTimeout
}

func NewQuestionService(
	db *gorm.DB,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	questionCache cache.QuestionCache,
	cfg *config.Config,
) QuestionService {
	return &questionService{
		db:           db,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		cache:        questionCache,
		timeout:      timeoutFrom(cfg),
	}
}

// AddQuestion writes the question and all of its options in one transaction.
// On any failure nothing is committed.
func (s *questionService) AddQuestion(ctx context.Context, quizID uint, in NewQuestion) (*model.Question, error) {
	in, err := normalizeNewQuestion(in)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := s.timeout.bound(ctx)
	defer cancel()

	question := model.Question{
		QuizID:    quizID,
		Text:      in.Text,
		Type:      in.Type,
		WordLimit: in.WordLimit,
	}

	err = s.db.WithContext(dbCtx).Transaction(func(tx *gorm.DB) error {
		quizzes := s.quizRepo.WithTx(tx)
		questions := s.questionRepo.WithTx(tx)

		ok, err := quizzes.Exists(dbCtx, quizID)
		if err != nil {
			return fmt.Errorf("check quiz %d: %w", quizID, err)
		}
		if !ok {
			return apperr.NotFound("quiz %d not found", quizID)
		}

		if err := questions.Create(dbCtx, &question); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		question.Options = make([]model.Option, 0, len(in.Options))
		for i, o := range in.Options {
			option := model.Option{
				QuestionID: question.ID,
				Text:       o.Text,
				IsCorrect:  o.IsCorrect,
			}
			if err := questions.CreateOption(dbCtx, &option); err != nil {
				return fmt.Errorf("insert option %d of question %d: %w", i, question.ID, err)
			}
			question.Options = append(question.Options, option)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to add question, transaction rolled back")
		return nil, apperr.FromDB(err)
	}

	cacheCtx, cancelCache := cacheBound(ctx)
	defer cancelCache()
	if err := s.cache.Invalidate(cacheCtx, quizID); err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("Failed to invalidate question cache")
	}
	log.Info().Uint("quizID", quizID).Uint("questionID", question.ID).Int("options", len(question.Options)).Msg("Question added")
	return &question, nil
}

// GetQuizQuestions returns the quiz's questions with their options, ordered by
// question id then option id. Correctness flags are included.
func (s *questionService) GetQuizQuestions(ctx context.Context, quizID uint) ([]model.Question, error) {
	cached, gen, err := s.cachedQuestions(ctx, quizID)
	if err == nil {
		return cached, nil
	}
	// Without a generation from a clean miss the fill cannot be guarded.
	fill := errors.Is(err, cache.ErrMiss)
	if !fill {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("Question cache read failed, reading from database")
	}

	dbCtx, cancel := s.timeout.bound(ctx)
	defer cancel()

	ok, err := s.quizRepo.Exists(dbCtx, quizID)
	if err != nil {
		return nil, apperr.FromDB(fmt.Errorf("check quiz %d: %w", quizID, err))
	}
	if !ok {
		return nil, apperr.NotFound("quiz %d not found", quizID)
	}

	rows, err := s.questionRepo.FindRowsByQuizID(dbCtx, quizID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to load quiz questions")
		return nil, apperr.FromDB(fmt.Errorf("load questions of quiz %d: %w", quizID, err))
	}
	questions := foldQuestionRows(rows)
	if !fill {
		return questions, nil
	}

	// Filled under the generation read before the query; a question added
	// meanwhile makes the fill stale and it is dropped.
	cacheCtx, cancelCache := cacheBound(ctx)
	defer cancelCache()
	switch err := s.cache.Set(cacheCtx, quizID, gen, questions); {
	case errors.Is(err, cache.ErrStale):
		log.Debug().Uint("quizID", quizID).Msg("Question cache fill superseded")
	case err != nil:
		log.Warn().Err(err).Uint("quizID", quizID).Msg("Failed to populate question cache")
	}
	return questions, nil
}

func (s *questionService) cachedQuestions(ctx context.Context, quizID uint) ([]model.Question, cache.Generation, error) {
	ctx, cancel := cacheBound(ctx)
	defer cancel()
	return s.cache.Get(ctx, quizID)
}

// foldQuestionRows turns joined rows, ordered by question id then option id,
// into question trees. A question without options keeps an empty slice.
func foldQuestionRows(rows []repository.QuestionOptionRow) []model.Question {
	questions := make([]model.Question, 0)
	for _, row := range rows {
		if n := len(questions); n == 0 || questions[n-1].ID != row.QuestionID {
			questions = append(questions, model.Question{
				ID:        row.QuestionID,
				QuizID:    row.QuizID,
				Text:      row.QuestionText,
				Type:      row.QuestionType,
				WordLimit: row.WordLimit,
				CreatedAt: row.CreatedAt,
				Options:   []model.Option{},
			})
		}
		if row.OptionID == nil {
			continue
		}
		option := model.Option{ID: *row.OptionID, QuestionID: row.QuestionID}
		if row.OptionText != nil {
			option.Text = *row.OptionText
		}
		if row.IsCorrect != nil {
			option.IsCorrect = *row.IsCorrect
		}
		last := &questions[len(questions)-1]
		last.Options = append(last.Options, option)
	}
	return questions
}

func normalizeNewQuestion(in NewQuestion) (NewQuestion, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" || utf8.RuneCountInString(in.Text) > maxQuestionTextLen {
		return in, apperr.Validation("question text is required and must be between 1-%d characters", maxQuestionTextLen)
	}
	if in.Type == "" {
		in.Type = model.SingleChoice
	}
	if !in.Type.Valid() {
		return in, apperr.Validation("question type must be single_choice, multiple_choice, or text, got %q", in.Type)
	}
	if in.WordLimit != nil && (*in.WordLimit < minWordLimit || *in.WordLimit > maxWordLimit) {
		return in, apperr.Validation("word limit must be between %d-%d", minWordLimit, maxWordLimit)
	}

	options := make([]NewOption, len(in.Options))
	correct := 0
	for i, o := range in.Options {
		o.Text = strings.TrimSpace(o.Text)
		if o.Text == "" || utf8.RuneCountInString(o.Text) > maxOptionTextLen {
			return in, apperr.Validation("option %d text must be between 1-%d characters", i, maxOptionTextLen)
		}
		if o.IsCorrect {
			correct++
		}
		options[i] = o
	}
	if err := in.Type.CheckCorrectCount(len(options), correct); err != nil {
		return in, apperr.New(apperr.KindValidation, err)
	}
	in.Options = options
	return in, nil
}
