package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/database"
	_ "github.com/lshigami/quizzer/docs" // Swagger docs
	adminctrl "github.com/lshigami/quizzer/internal/controller/admin"
	userctrl "github.com/lshigami/quizzer/internal/controller/user"
	"github.com/lshigami/quizzer/internal/cache"
	"github.com/lshigami/quizzer/internal/logger"
	"github.com/lshigami/quizzer/internal/repository"
	"github.com/lshigami/quizzer/internal/router"
	"github.com/lshigami/quizzer/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// @title Quiz Authoring & Evaluation API
// @version 1.0
// @description Build multi-question quizzes and score submitted answers.
// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewQuestionCache,
			router.NewEngine,
		),

		fx.Provide(
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
		),

		fx.Provide(
			service.NewQuizService,
			service.NewQuestionService,
			service.NewEvaluationService,
		),

		fx.Provide(
			adminctrl.NewAdminQuizController,
			userctrl.NewUserQuizController,
		),

		// .env may carry log settings the environment did not.
		fx.Invoke(func(cfg *config.Config) { logger.Configure(cfg.Log.Level, cfg.Log.Format) }),
		// Migrations run before the server starts listening.
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// RegisterRoutesAndStartServer attaches the API routes and ties the HTTP
// server to the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminQuizController,
	userCtrl *userctrl.UserQuizController,
) {
	router.RegisterRoutes(engine, adminCtrl, userCtrl)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
