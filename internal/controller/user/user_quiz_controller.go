package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/quizzer/internal/controller"
	"github.com/lshigami/quizzer/internal/dto"
	"github.com/lshigami/quizzer/internal/service"
	"github.com/rs/zerolog/log"
)

// UserQuizController serves quiz takers. Correctness flags never leave it.
type UserQuizController struct {
	quizService       service.QuizService
	questionService   service.QuestionService
	evaluationService service.EvaluationService
}

func NewUserQuizController(qs service.QuizService, qns service.QuestionService, es service.EvaluationService) *UserQuizController {
	return &UserQuizController{
		quizService:       qs,
		questionService:   qns,
		evaluationService: es,
	}
}

// ListQuizzes godoc
// @Summary List all quizzes
// @Description Newest first, each with its question count.
// @Tags Quizzes
// @Produce json
// @Success 200 {object} dto.SuccessResponse{data=[]dto.QuizSummaryResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [get]
func (ctrl *UserQuizController) ListQuizzes(c *gin.Context) {
	quizzes, err := ctrl.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	resp := make([]dto.QuizSummaryResponse, 0, len(quizzes))
	if err := copier.Copy(&resp, &quizzes); err != nil {
		log.Error().Err(err).Msg("Failed to copy quizzes to response")
		controller.RespondError(c, err)
		return
	}
	controller.RespondList(c, resp, len(resp))
}

// GetQuiz godoc
// @Summary Get a quiz by ID
// @Tags Quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.QuizSummaryResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (ctrl *UserQuizController) GetQuiz(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	quiz, err := ctrl.quizService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	var resp dto.QuizSummaryResponse
	if err := copier.Copy(&resp, quiz); err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondOK(c, http.StatusOK, resp, "")
}

// GetQuestions godoc
// @Summary Get all questions for a quiz
// @Description Options are returned without their correctness flag.
// @Tags Questions
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.PublicQuestionResponse}
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/{id}/questions [get]
func (ctrl *UserQuizController) GetQuestions(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	questions, err := ctrl.questionService.GetQuizQuestions(c.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondList(c, dto.NewPublicQuestionResponses(questions), len(questions))
}

// SubmitQuiz godoc
// @Summary Submit answers for a quiz
// @Description option_ids is a single option id or an array of ids.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param submission body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.SuccessResponse{data=dto.SubmissionResultResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/{id}/submit [post]
func (ctrl *UserQuizController) SubmitQuiz(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(c, err)
		return
	}

	answers := make([]service.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.Answer{QuestionID: a.QuestionID, OptionIDs: a.OptionIDs})
	}

	log.Info().Uint("quizID", quizID).Int("answerCount", len(answers)).Msg("Received quiz submission")
	result, err := ctrl.evaluationService.EvaluateSubmission(c.Request.Context(), quizID, answers)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	var resp dto.SubmissionResultResponse
	if err := copier.Copy(&resp, result); err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondOK(c, http.StatusOK, resp, "")
}
