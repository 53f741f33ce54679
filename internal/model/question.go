package model

import (
	"fmt"
	"time"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	Text           QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, Text:
		return true
	}
	return false
}

// CheckCorrectCount enforces the per-type rule on how many options may be
// flagged correct. An empty option set is always accepted.
func (t QuestionType) CheckCorrectCount(options, correct int) error {
	if options == 0 {
		return nil
	}
	switch t {
	case SingleChoice:
		if correct != 1 {
			return fmt.Errorf("single choice questions must have exactly one correct answer, got %d", correct)
		}
	case MultipleChoice:
		if correct == 0 {
			return fmt.Errorf("multiple choice questions must have at least one correct answer")
		}
	}
	return nil
}

type Question struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	QuizID    uint         `json:"quiz_id" gorm:"not null;index"`
	Text      string       `json:"question_text" gorm:"column:question_text;type:varchar(500);not null"`
	Type      QuestionType `json:"question_type" gorm:"column:question_type;type:varchar(20);not null;default:'single_choice';check:chk_questions_question_type,question_type IN ('single_choice','multiple_choice','text')"`
	WordLimit *int         `json:"word_limit" gorm:"column:word_limit"`
	Options   []Option     `json:"options" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Question) TableName() string { return "questions" }

// Scoreable reports whether the question takes part in evaluation.
func (q Question) Scoreable() bool { return len(q.Options) > 0 }
