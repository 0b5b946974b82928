package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/moodsyncai/moodsync/internal/apperrors"
)

// stubGenerator is a scriptable TextGenerator: each call pops the next
// response (or error) from the queue, repeating the last one when exhausted.
type stubGenerator struct {
	name      string
	responses []string
	err       error
	calls     int
}

func (s *stubGenerator) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stub has no responses")
	}
	out := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return out, nil
}

func TestAnalyzeSentimentClampsRatingAndConfidence(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"rating": 4.7, "confidence": 1.3, "dominant_emotion": "joy"}`,
	}}
	svc := NewAnalysisService(gen)

	sentiment, err := svc.AnalyzeSentiment(context.Background(), "I had a wonderful day with friends")
	if err != nil {
		t.Fatalf("AnalyzeSentiment failed: %v", err)
	}

	if sentiment.Rating != 5 {
		t.Errorf("expected rating 5, got %d", sentiment.Rating)
	}
	if sentiment.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", sentiment.Confidence)
	}
	if sentiment.DominantEmotion != "joy" {
		t.Errorf("expected dominant emotion joy, got %q", sentiment.DominantEmotion)
	}
}

func TestAnalyzeSentimentRatingDomain(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{0, 1},
		{6, 5},
		{-3, 1},
		{2.6, 3},
		{2.4, 2},
		{3, 3},
	}

	for _, tc := range cases {
		gen := &stubGenerator{responses: []string{
			fmt.Sprintf(`{"rating": %v, "confidence": 0.8, "dominant_emotion": "neutral"}`, tc.raw),
		}}
		svc := NewAnalysisService(gen)

		sentiment, err := svc.AnalyzeSentiment(context.Background(), "some text")
		if err != nil {
			t.Fatalf("raw rating %v: unexpected error: %v", tc.raw, err)
		}
		if sentiment.Rating != tc.want {
			t.Errorf("raw rating %v: expected %d, got %d", tc.raw, tc.want, sentiment.Rating)
		}
	}
}

func TestAnalyzeSentimentRejectsEmptyText(t *testing.T) {
	svc := NewAnalysisService(&stubGenerator{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.AnalyzeSentiment(context.Background(), text)
		if err == nil {
			t.Fatalf("expected error for input %q", text)
		}
		if apperrors.TypeOf(err) != apperrors.ErrorTypeValidation {
			t.Errorf("input %q: expected validation error, got %v", text, apperrors.TypeOf(err))
		}
	}
}

func TestAnalyzeSentimentUnparsableResponse(t *testing.T) {
	cases := []string{
		"I cannot analyze that, sorry.",
		`{"rating": "not a number"}`,
		`{"confidence": 0.5}`,
	}

	for _, response := range cases {
		svc := NewAnalysisService(&stubGenerator{responses: []string{response}})

		_, err := svc.AnalyzeSentiment(context.Background(), "some text")
		if err == nil {
			t.Fatalf("response %q: expected error", response)
		}
		if apperrors.TypeOf(err) != apperrors.ErrorTypeClassification {
			t.Errorf("response %q: expected classification error, got %v", response, apperrors.TypeOf(err))
		}
	}
}

func TestAnalyzeSentimentProviderFailure(t *testing.T) {
	svc := NewAnalysisService(&stubGenerator{err: errors.New("rate limited")})

	_, err := svc.AnalyzeSentiment(context.Background(), "some text")
	if apperrors.TypeOf(err) != apperrors.ErrorTypeClassification {
		t.Errorf("expected classification error, got %v", err)
	}
}

func TestAnalyzeToneClampsConfidence(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		"```json\n{\"tone\": \"anxious\", \"confidence\": -0.4, \"emotional_state\": \"distressed\"}\n```",
	}}
	svc := NewAnalysisService(gen)

	tone, err := svc.AnalyzeTone(context.Background(), "I can't stop worrying about tomorrow")
	if err != nil {
		t.Fatalf("AnalyzeTone failed: %v", err)
	}

	if tone.Tone != "anxious" {
		t.Errorf("expected tone anxious, got %q", tone.Tone)
	}
	if tone.Confidence != 0 {
		t.Errorf("expected confidence clamped to 0, got %v", tone.Confidence)
	}
	if tone.EmotionalState != "distressed" {
		t.Errorf("expected emotional state distressed, got %q", tone.EmotionalState)
	}
}

func TestAnalyzeToneMissingFields(t *testing.T) {
	svc := NewAnalysisService(&stubGenerator{responses: []string{`{"confidence": 0.9}`}})

	_, err := svc.AnalyzeTone(context.Background(), "hello")
	if apperrors.TypeOf(err) != apperrors.ErrorTypeClassification {
		t.Errorf("expected classification error, got %v", err)
	}
}
