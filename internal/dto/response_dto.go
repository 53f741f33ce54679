package dto

import (
	"time"

	"github.com/lshigami/quizzer/internal/model"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type QuizResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuizSummaryResponse is a quiz with its current number of questions.
type QuizSummaryResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OptionResponse carries the correctness flag and is only served to
// authoring and management clients.
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionResponse struct {
	ID           uint               `json:"id"`
	QuizID       uint               `json:"quiz_id"`
	QuestionText string             `json:"question_text"`
	QuestionType model.QuestionType `json:"question_type"`
	WordLimit    *int               `json:"word_limit"`
	Options      []OptionResponse   `json:"options"`
}

// PublicOptionResponse is what quiz takers see: no correctness flag.
type PublicOptionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type PublicQuestionResponse struct {
	ID           uint                   `json:"id"`
	QuestionText string                 `json:"question_text"`
	QuestionType model.QuestionType     `json:"question_type"`
	WordLimit    *int                   `json:"word_limit"`
	Options      []PublicOptionResponse `json:"options"`
}

type SubmissionResultResponse struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type SubmissionResponse struct {
	ID             uint      `json:"id"`
	QuizID         uint      `json:"quiz_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func NewQuestionResponse(q model.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.Text,
		QuestionType: q.Type,
		WordLimit:    q.WordLimit,
		Options:      make([]OptionResponse, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		resp.Options = append(resp.Options, OptionResponse{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect})
	}
	return resp
}

func NewQuestionResponses(questions []model.Question) []QuestionResponse {
	resp := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, NewQuestionResponse(q))
	}
	return resp
}

// NewPublicQuestionResponses drops every correctness flag.
func NewPublicQuestionResponses(questions []model.Question) []PublicQuestionResponse {
	resp := make([]PublicQuestionResponse, 0, len(questions))
	for _, q := range questions {
		pq := PublicQuestionResponse{
			ID:           q.ID,
			QuestionText: q.Text,
			QuestionType: q.Type,
			WordLimit:    q.WordLimit,
			Options:      make([]PublicOptionResponse, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			pq.Options = append(pq.Options, PublicOptionResponse{ID: o.ID, Text: o.Text})
		}
		resp = append(resp, pq)
	}
	return resp
}
