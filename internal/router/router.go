package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/internal/controller"
	adminctrl "github.com/lshigami/quizzer/internal/controller/admin"
	userctrl "github.com/lshigami/quizzer/internal/controller/user"
	"github.com/lshigami/quizzer/internal/dto"
	"github.com/lshigami/quizzer/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewEngine builds the gin engine with logging, recovery, CORS and the
// Swagger UI. Routes are attached by RegisterRoutes.
func NewEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	dto.RegisterValidations()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutes(r *gin.Engine, admin *adminctrl.AdminQuizController, user *userctrl.UserQuizController) {
	r.GET("/", controller.Health)

	api := r.Group("/api")
	api.GET("/health", controller.Health)

	quizzes := api.Group("/quizzes")
	{
		quizzes.POST("", admin.CreateQuiz)
		quizzes.GET("", user.ListQuizzes)
		quizzes.GET("/:id", user.GetQuiz)
		quizzes.POST("/:id/questions", admin.AddQuestion)
		quizzes.GET("/:id/questions", user.GetQuestions)
		quizzes.POST("/:id/submit", user.SubmitQuiz)
	}

	adminQuizzes := api.Group("/admin/quizzes")
	{
		adminQuizzes.GET("/:id/questions", admin.GetQuestions)
		adminQuizzes.GET("/:id/submissions", admin.ListSubmissions)
		adminQuizzes.DELETE("/:id", admin.DeleteQuiz)
	}
}
