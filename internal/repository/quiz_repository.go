package repository

import (
	"context"

	"github.com/lshigami/quizzer/internal/model"
	"gorm.io/gorm"
)

// QuizSummary is a quiz annotated with its current question count.
type QuizSummary struct {
	model.Quiz
	QuestionCount int `json:"question_count"`
}

type QuizRepository interface {
	WithTx(tx *gorm.DB) QuizRepository
	Create(ctx context.Context, quiz *model.Quiz) error
	Exists(ctx context.Context, id uint) (bool, error)
	FindByIDWithQuestionCount(ctx context.Context, id uint) (*QuizSummary, error)
	FindAllWithQuestionCount(ctx context.Context) ([]QuizSummary, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) WithTx(tx *gorm.DB) QuizRepository {
	return &quizRepository{db: tx}
}

func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Omit("Questions", "Submissions").Create(quiz).Error
}

func (r *quizRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Quiz{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

const questionCountSelect = "quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count"

// FindByIDWithQuestionCount returns gorm.ErrRecordNotFound when no quiz matches.
func (r *quizRepository) FindByIDWithQuestionCount(ctx context.Context, id uint) (*QuizSummary, error) {
	var summary QuizSummary
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select(questionCountSelect).
		Where("quizzes.id = ?", id).
		Take(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *quizRepository) FindAllWithQuestionCount(ctx context.Context) ([]QuizSummary, error) {
	var results []QuizSummary
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select(questionCountSelect).
		Order("quizzes.created_at DESC").
		Order("quizzes.id DESC").
		Scan(&results).Error
	return results, err
}

// Delete removes the quiz; questions, options and submissions go with it
// through ON DELETE CASCADE.
func (r *quizRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Quiz{}, id)
	return res.RowsAffected, res.Error
}
