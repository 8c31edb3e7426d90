package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
)

type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	handler  *handlers.Handler
	identity auth.IdentityProvider
}

func New(cfg *config.Config, db database.Service, identity auth.IdentityProvider, log *logrus.Logger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		handler:  handlers.NewHandler(db, log),
		identity: identity,
	}
}

// NewServer creates and configures the HTTP server
func NewServer(cfg *config.Config, db database.Service, log *logrus.Logger) *http.Server {
	s := New(cfg, db, auth.NewProvider(cfg), log)

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// corsConfig allows the configured frontend origins, or any origin without
// credentials when none are configured
func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(s.log), gin.Recovery())

	r.Use(cors.New(s.corsConfig()))

	requireUser := middleware.AuthMiddleware(s.identity)
	h := s.handler

	// Health check endpoints
	r.GET("/health", h.Health.Health)
	r.GET("/health/db", h.Health.DatabaseHealth)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		users.POST("/", h.User.CreateUser)
		users.GET("/", h.User.GetUsers)
		users.GET("/:id", h.User.GetUser)
		users.GET("/:id/stats", h.User.GetUserStats)
		users.PUT("/:id", requireUser, h.User.UpdateUser)
		users.DELETE("/:id", requireUser, h.User.DeleteUser)

		questions := api.Group("/questions")
		questions.GET("/", h.Question.GetQuestions)
		questions.GET("/:id", h.Question.GetQuestion)
		questions.GET("/user/:uid", h.Question.GetUserQuestions)
		questions.POST("/", requireUser, h.Question.CreateQuestion)
		questions.PUT("/:id", requireUser, h.Question.UpdateQuestion)
		questions.DELETE("/:id", requireUser, h.Question.DeleteQuestion)
		questions.POST("/:id/solve", requireUser, h.Question.SolveQuestion)

		tags := api.Group("/tags")
		tags.GET("/", h.Tag.GetTags)
		tags.POST("/", h.Tag.CreateTag)
		tags.GET("/:name", h.Tag.GetTag)
		tags.GET("/:name/questions", h.Tag.GetTagQuestions)

		api.GET("/search/", h.Search.Search)
		api.GET("/stats/", h.Stats.GetPlatformStats)
	}

	answers := r.Group("/answers")
	{
		answers.GET("/:id", h.Answer.GetAnswer)
		answers.GET("/question/:qid", h.Answer.GetQuestionAnswers)
		answers.GET("/user/:uid", h.Answer.GetUserAnswers)
		answers.POST("/", requireUser, h.Answer.CreateAnswer)
		answers.PUT("/:id", requireUser, h.Answer.UpdateAnswer)
		answers.DELETE("/:id", requireUser, h.Answer.DeleteAnswer)
		answers.POST("/:id/accept", requireUser, h.Answer.AcceptAnswer)
	}

	votes := r.Group("/votes")
	{
		votes.GET("/question/:qid", h.Vote.GetQuestionVotes)
		votes.GET("/answer/:aid", h.Vote.GetAnswerVotes)
		votes.POST("/", requireUser, h.Vote.CreateVote)
	}

	return r
}
