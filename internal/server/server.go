// Package server is the HTTP surface: a gin router over the service layer.
// Handlers never reach into gorm or providers directly; they validate input,
// resolve the authenticated user and delegate.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/config"
	"github.com/moodsyncai/moodsync/internal/interfaces"
	"github.com/moodsyncai/moodsync/internal/logger"
)

type Server struct {
	cfg         *config.Config
	users       interfaces.UserServiceInterface
	moods       interfaces.MoodServiceInterface
	journal     interfaces.JournalServiceInterface
	chat        interfaces.ChatServiceInterface
	recommender interfaces.RecommendationServiceInterface
	insights    interfaces.InsightsServiceInterface
	preferences interfaces.PreferencesServiceInterface
}

type Deps struct {
	Users       interfaces.UserServiceInterface
	Moods       interfaces.MoodServiceInterface
	Journal     interfaces.JournalServiceInterface
	Chat        interfaces.ChatServiceInterface
	Recommender interfaces.RecommendationServiceInterface
	Insights    interfaces.InsightsServiceInterface
	Preferences interfaces.PreferencesServiceInterface
}

func New(cfg *config.Config, deps Deps) *Server {
	return &Server{
		cfg:         cfg,
		users:       deps.Users,
		moods:       deps.Moods,
		journal:     deps.Journal,
		chat:        deps.Chat,
		recommender: deps.Recommender,
		insights:    deps.Insights,
		preferences: deps.Preferences,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
			auth.GET("/me", s.authRequired(), s.handleMe)
		}

		private := api.Group("")
		private.Use(s.authRequired())
		{
			private.POST("/mood", s.handleCreateMood)
			private.GET("/mood", s.handleListMood)
			private.GET("/mood/series", s.handleMoodSeries)

			private.POST("/journal", s.handleCreateJournal)
			private.GET("/journal", s.handleListJournal)
			private.GET("/journal/prompts", s.handleJournalPrompts)

			private.POST("/chat", s.handleSendChat)
			private.GET("/chat", s.handleListChat)

			private.GET("/insights", s.handleInsights)
			private.GET("/activities", s.handleActivities)
			private.GET("/recommendations", s.handleRecommendations)

			private.GET("/preferences", s.handleGetPreferences)
			private.PUT("/preferences", s.handleUpdatePreferences)
		}
	}

	return r
}

// respondError renders the uniform {"error": message} body with the status
// the error taxonomy dictates.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			logger.Error("request failed", appErr.LogFields()...)
		}
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}

	logger.Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
