package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/logger"
)

// ActivitySuggestion is one AI-generated therapeutic activity tied to a hobby.
type ActivitySuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hobby       string `json:"hobby"`
	Duration    string `json:"duration"`
	Difficulty  string `json:"difficulty"` // normalized to Easy/Medium/Hard
	MoodTarget  string `json:"mood_target"`
}

// ContentRecommendation is one AI-curated piece of wellness content.
type ContentRecommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"` // article, meditation, podcast, music, video
	URL         string   `json:"url,omitempty"`
	MoodMatch   string   `json:"mood_match"`
	Benefits    []string `json:"benefits"`
}

// JournalPrompts is a themed set of reflection prompts.
type JournalPrompts struct {
	Prompts []string `json:"prompts"`
	Theme   string   `json:"theme"`
}

// MoodPoint is a (mood, time) pair of history context for prompts.
type MoodPoint struct {
	Mood int
	At   time.Time
}

// RecommendationService produces structured suggestion lists from an ordered
// list of providers: the first that yields a well-formed result wins, and
// only when every attempt fails does the error propagate. There is no silent
// default list; a wrong silent default could mislead the user.
type RecommendationService struct {
	providers      []TextGenerator
	defaultPrompts JournalPrompts
}

func NewRecommendationService(providers []TextGenerator) *RecommendationService {
	return &RecommendationService{
		providers: providers,
		defaultPrompts: JournalPrompts{
			Prompts: []string{
				"What am I grateful for today?",
				"How can I show myself compassion?",
				"What emotions am I experiencing right now?",
			},
			Theme: "self-reflection",
		},
	}
}

// GenerateActivities produces personalized activity suggestions from hobbies
// and mood context. A missing or empty "activities" key is a valid
// zero-suggestions result, not an error.
func (s *RecommendationService) GenerateActivities(ctx context.Context, hobbies []string, currentMood int, moodHistory []MoodPoint) ([]ActivitySuggestion, error) {
	historyParts := make([]string, 0, len(moodHistory))
	for i, p := range moodHistory {
		if i >= 5 {
			break
		}
		historyParts = append(historyParts, fmt.Sprintf("%s on %s", moodDescription(p.Mood), p.At.Format("Mon Jan 2 2006")))
	}

	prompt := fmt.Sprintf(`Based on the user's hobbies (%s) and current mood (%s), generate 3 personalized therapeutic activity suggestions.

User's mood history shows: %s

Each activity should:
- Be based on one of their hobbies
- Be therapeutic and mood-enhancing
- Include specific, actionable instructions
- Be achievable in 15-45 minutes
- Match their current emotional state

Respond with JSON:
{
  "activities": [{
    "title": "Activity name",
    "description": "Detailed instructions for the activity",
    "hobby": "Which hobby this relates to",
    "duration": "Estimated time needed",
    "difficulty": "Easy/Medium/Hard",
    "mood_target": "What mood benefit this provides"
  }]
}`, strings.Join(hobbies, ", "), moodDescription(currentMood), strings.Join(historyParts, ", "))

	systemPrompt := "You are a therapeutic activity specialist who creates personalized wellness activities based on hobbies and mood states. Always respond with valid JSON."

	out, err := s.tryProviders(ctx, prompt, systemPrompt, func(jsonStr string) (any, error) {
		var parsed struct {
			Activities []ActivitySuggestion `json:"activities"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, err
		}
		for i := range parsed.Activities {
			parsed.Activities[i].Difficulty = normalizeDifficulty(parsed.Activities[i].Difficulty)
		}
		if parsed.Activities == nil {
			parsed.Activities = []ActivitySuggestion{}
		}
		return parsed.Activities, nil
	})
	if err != nil {
		return nil, apperrors.NewRecommendationError(err, "failed to generate activity suggestions")
	}
	return out.([]ActivitySuggestion), nil
}

// GenerateContent produces content recommendations matched to mood and
// preferences.
func (s *RecommendationService) GenerateContent(ctx context.Context, currentMood int, preferences, recentTopics []string) ([]ContentRecommendation, error) {
	prompt := fmt.Sprintf(`Generate 4 personalized content recommendations for someone feeling %s.

User preferences: %s
Recent interests: %s

Include a variety of content types: articles, meditations, podcasts, and music.
Each recommendation should be therapeutic and mood-appropriate.

Respond with JSON:
{
  "recommendations": [{
    "title": "Content title",
    "description": "Brief description",
    "type": "article|meditation|podcast|music|video",
    "url": "Optional URL if applicable",
    "mood_match": "Why this fits their current mood",
    "benefits": ["benefit1", "benefit2"]
  }]
}`, moodDescription(currentMood), strings.Join(preferences, ", "), strings.Join(recentTopics, ", "))

	systemPrompt := "You are a therapeutic content curator specializing in mental wellness recommendations. Always respond with valid JSON."

	out, err := s.tryProviders(ctx, prompt, systemPrompt, func(jsonStr string) (any, error) {
		var parsed struct {
			Recommendations []ContentRecommendation `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, err
		}
		for i := range parsed.Recommendations {
			parsed.Recommendations[i].Type = strings.ToLower(strings.TrimSpace(parsed.Recommendations[i].Type))
			if parsed.Recommendations[i].Benefits == nil {
				parsed.Recommendations[i].Benefits = []string{}
			}
		}
		if parsed.Recommendations == nil {
			parsed.Recommendations = []ContentRecommendation{}
		}
		return parsed.Recommendations, nil
	})
	if err != nil {
		return nil, apperrors.NewRecommendationError(err, "failed to generate content recommendations")
	}
	return out.([]ContentRecommendation), nil
}

// GenerateJournalPrompts produces themed reflection prompts. Unlike the other
// generators it falls back to a fixed default set when every provider fails;
// a journal page with no prompts blocks nothing but helps nobody.
func (s *RecommendationService) GenerateJournalPrompts(ctx context.Context, moodLevel int, recentExcerpts []string) JournalPrompts {
	if len(recentExcerpts) > 3 {
		recentExcerpts = recentExcerpts[:3]
	}

	prompt := fmt.Sprintf(`Based on the user's current mood (%s) and their recent journal themes, generate 3 thoughtful journal prompts that would be therapeutically beneficial.

Recent journal excerpts: %s

Generate prompts that:
- Are appropriate for their current emotional state
- Encourage healthy reflection and processing
- Build on themes from recent entries
- Promote self-compassion and growth

Respond with JSON:
{"prompts": ["prompt1", "prompt2", "prompt3"], "theme": "Overall therapeutic theme"}`,
		moodDescription(moodLevel), strings.Join(recentExcerpts, "; "))

	systemPrompt := "You are a therapeutic journaling specialist who creates prompts for emotional wellness and self-reflection."

	out, err := s.tryProviders(ctx, prompt, systemPrompt, func(jsonStr string) (any, error) {
		var parsed JournalPrompts
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Prompts) == 0 {
			return nil, fmt.Errorf("no prompts in response")
		}
		if parsed.Theme == "" {
			parsed.Theme = s.defaultPrompts.Theme
		}
		return parsed, nil
	})
	if err != nil {
		logger.Warn("journal prompt generation failed, using defaults", "error", err)
		return s.defaultPrompts
	}
	return out.(JournalPrompts)
}

// tryProviders walks the ordered provider list. A provider failure or a
// malformed response moves on to the next attempt; the last failure is
// returned when the list is exhausted.
func (s *RecommendationService) tryProviders(ctx context.Context, prompt, systemPrompt string, parse func(string) (any, error)) (any, error) {
	if len(s.providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	var lastErr error
	for _, provider := range s.providers {
		out, err := provider.Generate(ctx, GenerateRequest{
			Prompt:       prompt,
			SystemPrompt: systemPrompt,
			JSONResponse: true,
		})
		if err != nil {
			logger.Warn("provider attempt failed", "provider", provider.Name(), "error", err)
			lastErr = apperrors.NewProviderError(err, provider.Name())
			continue
		}

		jsonStr := extractJSON(out)
		if jsonStr == "" {
			lastErr = apperrors.NewProviderError(fmt.Errorf("no JSON in response"), provider.Name())
			continue
		}

		parsed, err := parse(jsonStr)
		if err != nil {
			logger.Warn("provider returned malformed result", "provider", provider.Name(), "error", err)
			lastErr = apperrors.NewProviderError(err, provider.Name())
			continue
		}
		return parsed, nil
	}
	return nil, lastErr
}

func normalizeDifficulty(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "beginner", "simple", "low":
		return "Easy"
	case "hard", "difficult", "advanced", "challenging", "high":
		return "Hard"
	default:
		return "Medium"
	}
}

func moodDescription(mood int) string {
	switch mood {
	case 1:
		return "very sad/distressed"
	case 2:
		return "sad/down"
	case 3:
		return "neutral/okay"
	case 4:
		return "good/positive"
	case 5:
		return "great/very happy"
	default:
		return "neutral"
	}
}
