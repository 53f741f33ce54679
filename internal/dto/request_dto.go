package dto

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=500"`
}

type OptionRequest struct {
	Text      string `json:"text" binding:"required,notblank,max=200"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuestionRequest is also checked as a whole: the number of correct
// options must fit the question type.
type CreateQuestionRequest struct {
	QuestionText string          `json:"question_text" binding:"required,notblank,max=500"`
	QuestionType string          `json:"question_type" binding:"omitempty,oneof=single_choice multiple_choice text"`
	WordLimit    *int            `json:"word_limit" binding:"omitempty,min=1,max=300"`
	Options      []OptionRequest `json:"options" binding:"omitempty,dive"`
}

// OptionIDs accepts either a single option id or an array of ids.
type OptionIDs []uint

func (o *OptionIDs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}
	var raw []int64
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		var id int64
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		raw = []int64{id}
	}
	ids := make(OptionIDs, 0, len(raw))
	for _, id := range raw {
		if id < 0 {
			return fmt.Errorf("option id %d must be a positive integer", id)
		}
		ids = append(ids, uint(id))
	}
	*o = ids
	return nil
}

type AnswerRequest struct {
	QuestionID uint      `json:"question_id" binding:"required,gt=0"`
	OptionIDs  OptionIDs `json:"option_ids" binding:"required,dive,gt=0" swaggertype:"array,integer"`
}

type SubmitQuizRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required,min=1,dive"`
}
