package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodsyncai/moodsync/internal/analytics"
	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/config"
	"github.com/moodsyncai/moodsync/internal/database"
	"github.com/moodsyncai/moodsync/internal/server"
	"github.com/moodsyncai/moodsync/internal/services"
)

type stubUsers struct{}

func (stubUsers) Register(ctx context.Context, username, email, password, name string) (*database.User, error) {
	return &database.User{ID: "user-1", Username: username, Email: email, Name: name}, nil
}

func (stubUsers) Authenticate(ctx context.Context, email, password string) (*database.User, error) {
	if password != "correct horse" {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	return &database.User{ID: "user-1", Email: email}, nil
}

func (stubUsers) ByID(ctx context.Context, id string) (*database.User, error) {
	return &database.User{ID: id, Username: "casey"}, nil
}

type stubMoods struct{}

func (stubMoods) AddEntry(ctx context.Context, userID string, mood int, notes string) (*database.MoodEntry, error) {
	if mood < 1 || mood > 5 {
		return nil, apperrors.NewValidationError("mood must be between 1 and 5")
	}
	return &database.MoodEntry{ID: "mood-1", UserID: userID, Mood: mood, Notes: notes}, nil
}

func (stubMoods) Entries(ctx context.Context, userID string, limit int) ([]database.MoodEntry, error) {
	return []database.MoodEntry{{ID: "mood-1", UserID: userID, Mood: 4}}, nil
}

func (stubMoods) EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]database.MoodEntry, error) {
	return nil, nil
}

func (stubMoods) Series(ctx context.Context, userID string, days int) ([]analytics.SeriesPoint, error) {
	if days != 7 && days != 30 {
		return nil, apperrors.NewValidationError("series window must be 7 or 30 days")
	}
	points := make([]analytics.SeriesPoint, days)
	return points, nil
}

type stubJournal struct{}

func (stubJournal) AddEntry(ctx context.Context, userID, title, content string) (*database.JournalEntry, error) {
	return &database.JournalEntry{ID: "journal-1", UserID: userID, Title: title, Content: content}, nil
}

func (stubJournal) Entries(ctx context.Context, userID string, limit int) ([]database.JournalEntry, error) {
	return nil, nil
}

type stubChat struct{}

func (stubChat) SendMessage(ctx context.Context, userID, content string) (*services.ChatExchange, error) {
	return &services.ChatExchange{}, nil
}

func (stubChat) History(ctx context.Context, userID string, limit int) ([]database.ChatMessage, error) {
	return nil, nil
}

type stubRecommender struct{}

func (stubRecommender) GenerateActivities(ctx context.Context, hobbies []string, currentMood int, moodHistory []services.MoodPoint) ([]services.ActivitySuggestion, error) {
	return nil, apperrors.NewRecommendationError(nil, "failed to generate activity suggestions")
}

func (stubRecommender) GenerateContent(ctx context.Context, currentMood int, preferences, recentTopics []string) ([]services.ContentRecommendation, error) {
	return []services.ContentRecommendation{}, nil
}

func (stubRecommender) GenerateJournalPrompts(ctx context.Context, moodLevel int, recentExcerpts []string) services.JournalPrompts {
	return services.JournalPrompts{Prompts: []string{"What am I grateful for today?"}, Theme: "gratitude"}
}

type stubInsights struct{}

func (stubInsights) Generate(ctx context.Context, userID string) ([]string, error) {
	return []string{"Your mood has been trending upward this week."}, nil
}

func (stubInsights) Invalidate(ctx context.Context, userID string) {}

type stubPreferences struct{}

func (stubPreferences) Get(ctx context.Context, userID string) (*database.UserPreferences, error) {
	return &database.UserPreferences{UserID: userID, Hobbies: []string{"reading"}}, nil
}

func (stubPreferences) Update(ctx context.Context, userID string, update services.PreferencesUpdate) (*database.UserPreferences, error) {
	return &database.UserPreferences{UserID: userID}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	srv := server.New(cfg, server.Deps{
		Users:       stubUsers{},
		Moods:       stubMoods{},
		Journal:     stubJournal{},
		Chat:        stubChat{},
		Recommender: stubRecommender{},
		Insights:    stubInsights{},
		Preferences: stubPreferences{},
	})
	router := srv.Router()

	// Register to obtain a signed token for the authenticated cases.
	body := `{"username":"casey","email":"casey@example.com","password":"long enough","name":"Casey"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("expected a token in the register response, got %s", w.Body.String())
	}
	return router, resp.Token
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/mood", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("expected an error body, got %s", w.Body.String())
	}
}

func TestAuthRequiredWithGarbageToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/mood", "not-a-jwt", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreateMoodOutOfRange(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/mood", token, `{"mood": 7}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected a human-readable error message")
	}
}

func TestCreateMoodValid(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/mood", token, `{"mood": 4, "notes": "good walk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var entry database.MoodEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if entry.Mood != 4 || entry.UserID != "user-1" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestMoodSeriesShape(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/mood/series?days=7", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var series []analytics.SeriesPoint
	if err := json.Unmarshal(w.Body.Bytes(), &series); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(series) != 7 {
		t.Errorf("expected 7 points, got %d", len(series))
	}
}

func TestMoodSeriesRejectsOddWindow(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/mood/series?days=12", token, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestActivitiesErrorRendering(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/activities?mood=2", token, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when every provider fails, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("expected an error body, got %s", w.Body.String())
	}
}

func TestInsightsEndpoint(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/insights", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Insights []string `json:"insights"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(resp.Insights) != 1 {
		t.Errorf("expected 1 insight, got %d", len(resp.Insights))
	}
}

func TestJournalPromptsEndpoint(t *testing.T) {
	router, token := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/journal/prompts?mood=2", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "grateful") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
