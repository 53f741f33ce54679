package repository

import (
	"context"
	"time"

	"github.com/lshigami/quizzer/internal/model"
	"gorm.io/gorm"
)

// QuestionOptionRow is one row of questions LEFT JOIN options. Option
// columns are nil for a question without options.
type QuestionOptionRow struct {
	QuestionID   uint
	QuizID       uint
	QuestionText string
	QuestionType model.QuestionType
	WordLimit    *int
	CreatedAt    time.Time
	OptionID     *uint
	OptionText   *string
	IsCorrect    *bool
}

// AnswerKeyRow is one option of a scoreable question.
type AnswerKeyRow struct {
	QuestionID   uint
	QuestionType model.QuestionType
	OptionID     uint
	IsCorrect    bool
}

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(ctx context.Context, question *model.Question) error
	CreateOption(ctx context.Context, option *model.Option) error
	FindRowsByQuizID(ctx context.Context, quizID uint) ([]QuestionOptionRow, error)
	FindAnswerKeyRows(ctx context.Context, quizID uint) ([]AnswerKeyRow, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

// Create inserts the question row only; options are written one by one with
// CreateOption so ids follow the supplied order.
func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Omit("Options").Create(question).Error
}

func (r *questionRepository) CreateOption(ctx context.Context, option *model.Option) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *questionRepository) FindRowsByQuizID(ctx context.Context, quizID uint) ([]QuestionOptionRow, error) {
	var rows []QuestionOptionRow
	err := r.db.WithContext(ctx).
		Table("questions AS q").
		Select(`q.id AS question_id, q.quiz_id AS quiz_id, q.question_text AS question_text,
			q.question_type AS question_type, q.word_limit AS word_limit, q.created_at AS created_at,
			o.id AS option_id, o.option_text AS option_text, o.is_correct AS is_correct`).
		Joins("LEFT JOIN options AS o ON o.question_id = q.id").
		Where("q.quiz_id = ?", quizID).
		Order("q.id ASC").
		Order("o.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *questionRepository) FindAnswerKeyRows(ctx context.Context, quizID uint) ([]AnswerKeyRow, error) {
	var rows []AnswerKeyRow
	err := r.db.WithContext(ctx).
		Table("questions AS q").
		Select("q.id AS question_id, q.question_type AS question_type, o.id AS option_id, o.is_correct AS is_correct").
		Joins("JOIN options AS o ON o.question_id = q.id").
		Where("q.quiz_id = ?", quizID).
		Order("q.id ASC").
		Order("o.id ASC").
		Scan(&rows).Error
	return rows, err
}
