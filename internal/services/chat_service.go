package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
	"github.com/moodsyncai/moodsync/internal/logger"
	"gorm.io/gorm"
)

// historyWindow is how many recent turns condition the reply generation.
const historyWindow = 5

// ChatTurn is one (role, content) pair of conditioning context.
type ChatTurn struct {
	Role    string
	Content string
}

// EnhancedReply is the refinement provider's output. WasEnhanced tells callers
// apart from the passthrough fallback without content-equality heuristics.
type EnhancedReply struct {
	Content     string   `json:"content"`
	Techniques  []string `json:"techniques"`
	FollowUp    string   `json:"followUp"`
	WasEnhanced bool     `json:"wasEnhanced"`
}

// ChatExchange is the result of one full chat pipeline run.
type ChatExchange struct {
	UserMessage      *database.ChatMessage  `json:"userMessage"`
	AssistantMessage *database.ChatMessage  `json:"aiMessage"`
	DetectedTone     *database.ToneAnalysis `json:"detectedTone"`
	Techniques       []string               `json:"techniques,omitempty"`
	FollowUp         string                 `json:"followUp,omitempty"`
}

// ChatFallbacks are the texts substituted when a provider call fails.
type ChatFallbacks struct {
	Reply    string
	FollowUp string
}

// ChatService runs the conversation pipeline: tone analysis, reply
// generation, enhancement, persistence. The reply and enhancement steps
// swallow provider failures by design; a user-facing conversation must never
// visibly fail because of them.
type ChatService struct {
	db        *gorm.DB
	replier   TextGenerator
	refiner   TextGenerator
	analysis  *AnalysisService
	fallbacks ChatFallbacks
}

func NewChatService(db *gorm.DB, replier, refiner TextGenerator, analysis *AnalysisService, fallbacks ChatFallbacks) *ChatService {
	return &ChatService{
		db:        db,
		replier:   replier,
		refiner:   refiner,
		analysis:  analysis,
		fallbacks: fallbacks,
	}
}

// GenerateReply produces a conversational reply conditioned on the detected
// tone and at most the 5 most recent history turns, oldest first. Any
// provider failure falls back to the configured default reply.
func (s *ChatService) GenerateReply(ctx context.Context, message, tone string, history []ChatTurn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var contextLines []string
	for _, turn := range history {
		contextLines = append(contextLines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}

	systemPrompt := fmt.Sprintf(`You are MoodSync, an empathetic AI companion specialized in mental health and wellness support.
The user's current tone is: %s

Guidelines:
- Adapt your response tone to match the user's emotional state appropriately
- Be supportive, understanding, and non-judgmental
- Provide helpful suggestions when appropriate but don't be prescriptive
- If the user seems distressed, prioritize emotional support over problem-solving
- Keep responses conversational and warm
- If you detect serious mental health concerns, gently suggest professional help

Conversation context:
%s`, tone, strings.Join(contextLines, "\n"))

	out, err := s.replier.Generate(ctx, GenerateRequest{
		Prompt:       message,
		SystemPrompt: systemPrompt,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			logger.Warn("reply generation failed, using fallback", "provider", s.replier.Name(), "error", err)
		}
		return s.fallbacks.Reply
	}
	return strings.TrimSpace(out)
}

// Enhance asks the refinement provider to improve a generated reply. On any
// failure the original reply passes through unchanged with the configured
// follow-up question; the error never reaches the caller.
func (s *ChatService) Enhance(ctx context.Context, baseReply, tone, contextText string) EnhancedReply {
	passthrough := EnhancedReply{
		Content:     baseReply,
		Techniques:  []string{},
		FollowUp:    s.fallbacks.FollowUp,
		WasEnhanced: false,
	}

	if s.refiner == nil {
		return passthrough
	}

	systemPrompt := fmt.Sprintf(`You are a mental health AI assistant specializing in therapeutic communication. The user's tone is: %s

Take the base response and enhance it by:
- Making it more empathetic and personally relevant
- Adjusting the tone to better match the user's emotional state
- Adding gentle therapeutic techniques when appropriate
- Keeping it conversational and supportive
- Including 1-2 therapeutic techniques used
- Suggesting a thoughtful follow-up question or prompt

Context: %s

Respond with JSON:
{"content": "Enhanced response text", "techniques": ["technique1", "technique2"], "followUp": "Thoughtful follow-up question"}`, tone, contextText)

	out, err := s.refiner.Generate(ctx, GenerateRequest{
		Prompt:       fmt.Sprintf("Enhance this response: %q", baseReply),
		SystemPrompt: systemPrompt,
		JSONResponse: true,
	})
	if err != nil {
		logger.Warn("enhancement failed, passing reply through", "provider", s.refiner.Name(), "error", err)
		return passthrough
	}

	jsonStr := extractJSON(out)
	if jsonStr == "" {
		return passthrough
	}

	var enhanced EnhancedReply
	if err := json.Unmarshal([]byte(jsonStr), &enhanced); err != nil || strings.TrimSpace(enhanced.Content) == "" {
		return passthrough
	}

	if enhanced.Techniques == nil {
		enhanced.Techniques = []string{}
	}
	if enhanced.FollowUp == "" {
		enhanced.FollowUp = s.fallbacks.FollowUp
	}
	enhanced.WasEnhanced = true
	return enhanced
}

// SendMessage runs the whole pipeline for one user message and persists both
// sides of the exchange.
func (s *ChatService) SendMessage(ctx context.Context, userID, content string) (*ChatExchange, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("message content must not be empty")
	}

	// A failed tone classification must not fail the conversation; degrade to
	// a neutral tone instead.
	tone, err := s.analysis.AnalyzeTone(ctx, content)
	if err != nil {
		logger.Warn("tone analysis failed, continuing with neutral tone", "error", err)
		tone = &database.ToneAnalysis{Tone: "neutral", Confidence: 0, EmotionalState: "unknown"}
	}

	userMessage := &database.ChatMessage{
		UserID:  userID,
		Content: content,
		Role:    "user",
		Tone:    tone,
	}
	if err := s.db.WithContext(ctx).Create(userMessage).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	history, err := s.History(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	turns := make([]ChatTurn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, ChatTurn{Role: msg.Role, Content: msg.Content})
	}

	baseReply := s.GenerateReply(ctx, content, tone.Tone, turns)

	var contextLines []string
	for _, turn := range turns {
		contextLines = append(contextLines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	enhanced := s.Enhance(ctx, baseReply, tone.Tone, strings.Join(contextLines, "\n"))

	assistantMessage := &database.ChatMessage{
		UserID:  userID,
		Content: enhanced.Content,
		Role:    "assistant",
		Tone: &database.ToneAnalysis{
			Tone:           "empathetic",
			Confidence:     0.9,
			EmotionalState: "supportive",
		},
	}
	if err := s.db.WithContext(ctx).Create(assistantMessage).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return &ChatExchange{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		DetectedTone:     tone,
		Techniques:       enhanced.Techniques,
		FollowUp:         enhanced.FollowUp,
	}, nil
}

// History returns up to limit most recent messages in chronological order.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]database.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var messages []database.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
