package model

import (
	"time"
)

type Option struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"column:option_text;type:varchar(200);not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"column:is_correct;not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Option) TableName() string { return "options" }
