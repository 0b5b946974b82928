package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moodsyncai/moodsync/internal/cache"
	"github.com/moodsyncai/moodsync/internal/database"
	"github.com/moodsyncai/moodsync/internal/logger"
)

// InsightsService turns recent mood and journal history into a few short
// coaching insights. Results are cached per user; a provider failure degrades
// to the configured default insight instead of erroring, since insights are
// decorative rather than load-bearing.
type InsightsService struct {
	moods          *MoodService
	journal        *JournalService
	generator      TextGenerator
	insightsCache  *cache.InsightsCache
	defaultInsight string
}

func NewInsightsService(moods *MoodService, journal *JournalService, generator TextGenerator, insightsCache *cache.InsightsCache, defaultInsight string) *InsightsService {
	return &InsightsService{
		moods:          moods,
		journal:        journal,
		generator:      generator,
		insightsCache:  insightsCache,
		defaultInsight: defaultInsight,
	}
}

const insightsSystemPrompt = `You are an AI wellness coach analyzing mood patterns and journal entries.
Generate 2-3 personalized insights based on the user's mood and journal data.

Each insight should be:
- Supportive and encouraging
- Based on actual patterns in the data
- Actionable when appropriate
- 1-2 sentences long

Format as a JSON array of strings.`

// Generate returns 1-3 insight strings for the user's last two weeks.
func (s *InsightsService) Generate(ctx context.Context, userID string) ([]string, error) {
	if cached, ok := s.insightsCache.Get(ctx, userID); ok {
		return cached, nil
	}

	moodEntries, err := s.moods.Entries(ctx, userID, 14)
	if err != nil {
		return nil, err
	}
	journalEntries, err := s.journal.Entries(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	insights := s.generateFromData(ctx, moodEntries, journalEntries)
	s.insightsCache.Set(ctx, userID, insights)
	return insights, nil
}

func (s *InsightsService) generateFromData(ctx context.Context, moodEntries []database.MoodEntry, journalEntries []database.JournalEntry) []string {
	fallback := []string{s.defaultInsight}

	moodParts := make([]string, 0, len(moodEntries))
	for _, e := range moodEntries {
		part := fmt.Sprintf("%d on %s", e.Mood, e.Timestamp.Format("Mon Jan 2 2006"))
		if e.Notes != "" {
			part += fmt.Sprintf(" (%s)", e.Notes)
		}
		moodParts = append(moodParts, part)
	}

	journalParts := make([]string, 0, 3)
	for i, e := range journalEntries {
		if i >= 3 {
			break
		}
		excerpt := e.Content
		if len(excerpt) > 200 {
			excerpt = excerpt[:200] + "..."
		}
		journalParts = append(journalParts, fmt.Sprintf("%s: %s", e.CreatedAt.Format("Mon Jan 2 2006"), excerpt))
	}

	dataContext := fmt.Sprintf(`
Mood Data (1-5 scale): %s

Recent Journal Entries: %s
`, strings.Join(moodParts, ", "), strings.Join(journalParts, "\n"))

	out, err := s.generator.Generate(ctx, GenerateRequest{
		Prompt:       dataContext,
		SystemPrompt: insightsSystemPrompt,
		JSONResponse: true,
	})
	if err != nil {
		logger.Warn("insight generation failed, using default", "provider", s.generator.Name(), "error", err)
		return fallback
	}

	jsonStr := extractJSON(out)
	if jsonStr == "" {
		return fallback
	}

	var insights []string
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil || len(insights) == 0 {
		return fallback
	}
	return insights
}

// Invalidate drops the cached insights after new mood or journal data lands.
func (s *InsightsService) Invalidate(ctx context.Context, userID string) {
	s.insightsCache.Invalidate(ctx, userID)
}
