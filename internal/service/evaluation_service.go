package service

import (
	"context"
	"fmt"

	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/internal/apperr"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/repository"
	"github.com/rs/zerolog/log"
)

type EvaluationResult struct {
	SubmissionID uint
	Score        int
	Total        int
	Percentage   int
}

// EvaluationService scores submissions against the stored answer keys.
type EvaluationService interface {
	EvaluateSubmission(ctx context.Context, quizID uint, answers []Answer) (*EvaluationResult, error)
}

type evaluationService struct {
	quizRepo       repository.QuizRepository
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	timeout        opTimeout
}

func NewEvaluationService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	submissionRepo repository.SubmissionRepository,
	cfg *config.Config,
) EvaluationService {
	return &evaluationService{
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		timeout:        timeoutFrom(cfg),
	}
}

// EvaluateSubmission builds the answer key, scores answers against it and
// records the submission. The result is only returned once the submission
// row is committed.
func (s *evaluationService) EvaluateSubmission(ctx context.Context, quizID uint, answers []Answer) (*EvaluationResult, error) {
	ctx, cancel := s.timeout.bound(ctx)
	defer cancel()

	ok, err := s.quizRepo.Exists(ctx, quizID)
	if err != nil {
		return nil, apperr.FromDB(fmt.Errorf("check quiz %d: %w", quizID, err))
	}
	if !ok {
		return nil, apperr.NotFound("quiz %d not found", quizID)
	}

	rows, err := s.questionRepo.FindAnswerKeyRows(ctx, quizID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to load answer key")
		return nil, apperr.FromDB(fmt.Errorf("load answer key of quiz %d: %w", quizID, err))
	}
	key := BuildAnswerKey(rows)

	score := key.Score(answers)
	total := len(key)

	submission := model.Submission{QuizID: quizID, Score: score, TotalQuestions: total}
	if err := s.submissionRepo.Create(ctx, &submission); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Int("score", score).Msg("Failed to record submission")
		return nil, apperr.New(apperr.KindStorage, fmt.Errorf("record submission: %w", err))
	}

	result := &EvaluationResult{
		SubmissionID: submission.ID,
		Score:        score,
		Total:        total,
		Percentage:   Percentage(score, total),
	}
	log.Info().
		Uint("quizID", quizID).
		Uint("submissionID", submission.ID).
		Int("score", score).
		Int("total", total).
		Msg("Submission evaluated")
	return result, nil
}
