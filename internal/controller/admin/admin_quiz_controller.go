package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/quizzer/internal/controller"
	"github.com/lshigami/quizzer/internal/dto"
	"github.com/lshigami/quizzer/internal/model"
	"github.com/lshigami/quizzer/internal/service"
	"github.com/rs/zerolog/log"
)

// AdminQuizController serves quiz authors and managers. Its responses carry
// correctness flags.
type AdminQuizController struct {
	quizService     service.QuizService
	questionService service.QuestionService
}

func NewAdminQuizController(qs service.QuizService, qns service.QuestionService) *AdminQuizController {
	return &AdminQuizController{quizService: qs, questionService: qns}
}

// CreateQuiz godoc
// @Summary Create a new quiz
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param quiz body dto.CreateQuizRequest true "Quiz title and optional description"
// @Success 201 {object} dto.SuccessResponse{data=dto.QuizResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes [post]
func (ctrl *AdminQuizController) CreateQuiz(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(c, err)
		return
	}

	quiz, err := ctrl.quizService.CreateQuiz(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	var resp dto.QuizResponse
	if err := copier.Copy(&resp, quiz); err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondOK(c, http.StatusCreated, resp, "Quiz created successfully")
}

// AddQuestion godoc
// @Summary Add a question with its options to a quiz
// @Description Question and options are stored atomically.
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param question body dto.CreateQuestionRequest true "Question with options"
// @Success 201 {object} dto.SuccessResponse{data=dto.QuestionResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/{id}/questions [post]
func (ctrl *AdminQuizController) AddQuestion(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(c, err)
		return
	}

	in := service.NewQuestion{
		Text:      req.QuestionText,
		Type:      model.QuestionType(req.QuestionType),
		WordLimit: req.WordLimit,
		Options:   make([]service.NewOption, 0, len(req.Options)),
	}
	for _, o := range req.Options {
		in.Options = append(in.Options, service.NewOption{Text: o.Text, IsCorrect: o.IsCorrect})
	}

	question, err := ctrl.questionService.AddQuestion(c.Request.Context(), quizID, in)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondOK(c, http.StatusCreated, dto.NewQuestionResponse(*question), "Question added successfully")
}

// GetQuestions godoc
// @Summary (Admin) Get all questions of a quiz with answers
// @Tags Admin
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.QuestionResponse}
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes/{id}/questions [get]
func (ctrl *AdminQuizController) GetQuestions(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	questions, err := ctrl.questionService.GetQuizQuestions(c.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	controller.RespondList(c, dto.NewQuestionResponses(questions), len(questions))
}

// DeleteQuiz godoc
// @Summary (Admin) Delete a quiz
// @Description Deletes the quiz with its questions, options and submissions.
// @Tags Admin
// @Param id path int true "Quiz ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes/{id} [delete]
func (ctrl *AdminQuizController) DeleteQuiz(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.quizService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubmissions godoc
// @Summary (Admin) List submissions of a quiz
// @Tags Admin
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.SubmissionResponse}
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes/{id}/submissions [get]
func (ctrl *AdminQuizController) ListSubmissions(c *gin.Context) {
	quizID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	submissions, err := ctrl.quizService.ListSubmissions(c.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	resp := make([]dto.SubmissionResponse, 0, len(submissions))
	if err := copier.Copy(&resp, &submissions); err != nil {
		log.Error().Err(err).Msg("Failed to copy submissions to response")
		controller.RespondError(c, err)
		return
	}
	controller.RespondList(c, resp, len(resp))
}
