package interfaces

import (
	"context"
	"time"

	"github.com/moodsyncai/moodsync/internal/analytics"
	"github.com/moodsyncai/moodsync/internal/database"
	"github.com/moodsyncai/moodsync/internal/services"
)

// UserServiceInterface defines the contract for account operations
type UserServiceInterface interface {
	Register(ctx context.Context, username, email, password, name string) (*database.User, error)
	Authenticate(ctx context.Context, email, password string) (*database.User, error)
	ByID(ctx context.Context, id string) (*database.User, error)
}

// MoodServiceInterface defines the contract for mood tracking operations
type MoodServiceInterface interface {
	AddEntry(ctx context.Context, userID string, mood int, notes string) (*database.MoodEntry, error)
	Entries(ctx context.Context, userID string, limit int) ([]database.MoodEntry, error)
	EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]database.MoodEntry, error)
	Series(ctx context.Context, userID string, days int) ([]analytics.SeriesPoint, error)
}

// JournalServiceInterface defines the contract for journal operations
type JournalServiceInterface interface {
	AddEntry(ctx context.Context, userID, title, content string) (*database.JournalEntry, error)
	Entries(ctx context.Context, userID string, limit int) ([]database.JournalEntry, error)
}

// ChatServiceInterface defines the contract for the conversation pipeline
type ChatServiceInterface interface {
	SendMessage(ctx context.Context, userID, content string) (*services.ChatExchange, error)
	History(ctx context.Context, userID string, limit int) ([]database.ChatMessage, error)
}

// RecommendationServiceInterface defines the contract for suggestion generation
type RecommendationServiceInterface interface {
	GenerateActivities(ctx context.Context, hobbies []string, currentMood int, moodHistory []services.MoodPoint) ([]services.ActivitySuggestion, error)
	GenerateContent(ctx context.Context, currentMood int, preferences, recentTopics []string) ([]services.ContentRecommendation, error)
	GenerateJournalPrompts(ctx context.Context, moodLevel int, recentExcerpts []string) services.JournalPrompts
}

// InsightsServiceInterface defines the contract for mood insight generation
type InsightsServiceInterface interface {
	Generate(ctx context.Context, userID string) ([]string, error)
	Invalidate(ctx context.Context, userID string)
}

// PreferencesServiceInterface defines the contract for user preferences
type PreferencesServiceInterface interface {
	Get(ctx context.Context, userID string) (*database.UserPreferences, error)
	Update(ctx context.Context, userID string, update services.PreferencesUpdate) (*database.UserPreferences, error)
}
