package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/services"
)

type createMoodRequest struct {
	Mood  int    `json:"mood"`
	Notes string `json:"notes"`
}

func (s *Server) handleCreateMood(c *gin.Context) {
	var req createMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid mood entry"))
		return
	}

	entry, err := s.moods.AddEntry(c.Request.Context(), currentUserID(c), req.Mood, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	s.insights.Invalidate(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleListMood(c *gin.Context) {
	userID := currentUserID(c)

	if c.Query("range") == "week" {
		end := time.Now()
		start := end.AddDate(0, 0, -7)
		entries, err := s.moods.EntriesInRange(c.Request.Context(), userID, start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	entries, err := s.moods.Entries(c.Request.Context(), userID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleMoodSeries(c *gin.Context) {
	series, err := s.moods.Series(c.Request.Context(), currentUserID(c), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

type createJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateJournal(c *gin.Context) {
	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid journal entry"))
		return
	}

	entry, err := s.journal.AddEntry(c.Request.Context(), currentUserID(c), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	s.insights.Invalidate(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleListJournal(c *gin.Context) {
	entries, err := s.journal.Entries(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleJournalPrompts(c *gin.Context) {
	userID := currentUserID(c)
	mood := clampMoodQuery(c)

	recent, err := s.journal.Entries(c.Request.Context(), userID, 3)
	if err != nil {
		respondError(c, err)
		return
	}
	excerpts := make([]string, 0, len(recent))
	for _, entry := range recent {
		content := entry.Content
		if len(content) > 100 {
			content = content[:100]
		}
		excerpts = append(excerpts, content)
	}

	prompts := s.recommender.GenerateJournalPrompts(c.Request.Context(), mood, excerpts)
	c.JSON(http.StatusOK, prompts)
}

type sendChatRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSendChat(c *gin.Context) {
	var req sendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("message content is required"))
		return
	}

	exchange, err := s.chat.SendMessage(c.Request.Context(), currentUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exchange)
}

func (s *Server) handleListChat(c *gin.Context) {
	messages, err := s.chat.History(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) handleInsights(c *gin.Context) {
	insights, err := s.insights.Generate(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (s *Server) handleActivities(c *gin.Context) {
	userID := currentUserID(c)
	mood := clampMoodQuery(c)

	prefs, err := s.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	hobbies := prefs.Hobbies
	if len(hobbies) == 0 {
		hobbies = []string{"reading", "music", "art", "exercise", "cooking"}
	}

	entries, err := s.moods.Entries(c.Request.Context(), userID, 7)
	if err != nil {
		respondError(c, err)
		return
	}
	history := make([]services.MoodPoint, 0, len(entries))
	for _, e := range entries {
		history = append(history, services.MoodPoint{Mood: e.Mood, At: e.Timestamp})
	}

	activities, err := s.recommender.GenerateActivities(c.Request.Context(), hobbies, mood, history)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	userID := currentUserID(c)
	mood := clampMoodQuery(c)

	prefs, err := s.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	preferences := prefs.Hobbies
	if len(preferences) == 0 {
		preferences = []string{"mindfulness", "creativity", "wellness", "meditation"}
	}

	// Recent user messages give the curator topical context.
	messages, err := s.chat.History(c.Request.Context(), userID, 5)
	if err != nil {
		respondError(c, err)
		return
	}
	var topics []string
	for _, msg := range messages {
		if msg.Role != "user" || len(topics) >= 3 {
			continue
		}
		content := msg.Content
		if len(content) > 50 {
			content = content[:50]
		}
		topics = append(topics, content)
	}

	recommendations, err := s.recommender.GenerateContent(c.Request.Context(), mood, preferences, topics)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommendations)
}

func (s *Server) handleGetPreferences(c *gin.Context) {
	prefs, err := s.preferences.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(c *gin.Context) {
	var update services.PreferencesUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, apperrors.NewValidationError("invalid preferences payload"))
		return
	}

	prefs, err := s.preferences.Update(c.Request.Context(), currentUserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// clampMoodQuery reads ?mood= defaulting to neutral and clamping to the 1-5
// domain.
func clampMoodQuery(c *gin.Context) int {
	mood := queryInt(c, "mood", 3)
	if mood < 1 {
		return 1
	}
	if mood > 5 {
		return 5
	}
	return mood
}
