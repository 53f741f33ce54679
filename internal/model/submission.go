package model

import (
	"time"
)

// Submission records one evaluation of a quiz. Rows are append-only.
type Submission struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;index"`
	Score          int       `json:"score" gorm:"not null;check:chk_quiz_submissions_score,score >= 0"`
	TotalQuestions int       `json:"total_questions" gorm:"not null;check:chk_quiz_submissions_total,total_questions >= 0"`
	SubmittedAt    time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}

func (Submission) TableName() string { return "quiz_submissions" }
