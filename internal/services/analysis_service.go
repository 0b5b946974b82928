package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
)

const sentimentSystemPrompt = `You are a sentiment analysis expert specializing in mental health applications.
Analyze the sentiment of the text and provide:
1. A rating from 1 to 5 (1=very negative, 2=negative, 3=neutral, 4=positive, 5=very positive)
2. A confidence score between 0 and 1
3. The dominant emotion (e.g., joy, sadness, anxiety, anger, fear, surprise, neutral)

Respond with JSON in this exact format:
{"rating": number, "confidence": number, "dominant_emotion": string}`

const toneSystemPrompt = `You are a tone analysis expert for mental health conversations.
Analyze the tone and emotional state of the text and provide:
1. The primary tone (e.g., anxious, calm, excited, sad, angry, hopeful, frustrated, content)
2. A confidence score between 0 and 1
3. The overall emotional state (e.g., distressed, peaceful, energetic, melancholic, irritated, optimistic)

Respond with JSON in this exact format:
{"tone": string, "confidence": number, "emotional_state": string}`

// AnalysisService classifies free text into bounded, structured judgments.
// It never persists anything; persistence is the caller's responsibility.
type AnalysisService struct {
	generator TextGenerator
}

func NewAnalysisService(generator TextGenerator) *AnalysisService {
	return &AnalysisService{generator: generator}
}

// rawSentiment is the provider's shape before clamping. Rating arrives as a
// float because providers occasionally return 4.7 where an integer was asked.
type rawSentiment struct {
	Rating          *float64 `json:"rating"`
	Confidence      *float64 `json:"confidence"`
	DominantEmotion string   `json:"dominant_emotion"`
}

type rawTone struct {
	Tone           string   `json:"tone"`
	Confidence     *float64 `json:"confidence"`
	EmotionalState string   `json:"emotional_state"`
}

// AnalyzeSentiment classifies text on the 1-5 valence scale. Empty or
// whitespace-only input is rejected; an empty or unparsable provider response
// is a classification error, never a default value.
func (s *AnalysisService) AnalyzeSentiment(ctx context.Context, text string) (*database.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text must not be empty")
	}

	out, err := s.generator.Generate(ctx, GenerateRequest{
		Prompt:       text,
		SystemPrompt: sentimentSystemPrompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, apperrors.NewClassificationError(err, "sentiment analysis failed")
	}

	jsonStr := extractJSON(out)
	if jsonStr == "" {
		return nil, apperrors.NewClassificationError(nil, "no JSON in sentiment response")
	}

	var raw rawSentiment
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, apperrors.NewClassificationError(err, "unparsable sentiment response")
	}
	if raw.Rating == nil || raw.Confidence == nil || raw.DominantEmotion == "" {
		return nil, apperrors.NewClassificationError(nil, "sentiment response missing required fields")
	}

	return &database.Sentiment{
		Rating:          clampRating(*raw.Rating),
		Confidence:      clampConfidence(*raw.Confidence),
		DominantEmotion: raw.DominantEmotion,
	}, nil
}

// AnalyzeTone classifies the conversational register of a chat message.
func (s *AnalysisService) AnalyzeTone(ctx context.Context, text string) (*database.ToneAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text must not be empty")
	}

	out, err := s.generator.Generate(ctx, GenerateRequest{
		Prompt:       text,
		SystemPrompt: toneSystemPrompt,
		JSONResponse: true,
	})
	if err != nil {
		return nil, apperrors.NewClassificationError(err, "tone analysis failed")
	}

	jsonStr := extractJSON(out)
	if jsonStr == "" {
		return nil, apperrors.NewClassificationError(nil, "no JSON in tone response")
	}

	var raw rawTone
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, apperrors.NewClassificationError(err, "unparsable tone response")
	}
	if raw.Tone == "" || raw.Confidence == nil {
		return nil, apperrors.NewClassificationError(nil, "tone response missing required fields")
	}

	return &database.ToneAnalysis{
		Tone:           raw.Tone,
		Confidence:     clampConfidence(*raw.Confidence),
		EmotionalState: raw.EmotionalState,
	}, nil
}

// clampRating rounds first, then clamps to [1,5].
func clampRating(v float64) int {
	r := int(math.Round(v))
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
