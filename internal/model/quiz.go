package model

import (
	"time"
)

type Quiz struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	Title       string       `json:"title" gorm:"type:varchar(200);not null"`
	Description string       `json:"description" gorm:"type:varchar(500)"`
	Questions   []Question   `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Submissions []Submission `json:"-" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }
