package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// GenerateRequest is a single call into a text-generation provider. When
// JSONResponse is set the provider is asked for a bare JSON object; callers
// still defensively extract and decode, since not every provider honors it.
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	JSONResponse bool
}

// TextGenerator is the capability every AI-backed component is built on.
// Components receive generators at construction, so tests swap in stubs
// without touching any network-adjacent code.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeminiProvider is the primary provider, used for classification, reply
// generation and insights.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model, timeout: timeout}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := p.client.GenerativeModel(p.model)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}
	if req.JSONResponse {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}

// ChatCompletionProvider speaks the OpenAI chat-completions API. It covers
// both OpenAI proper and OpenRouter, which exposes the same API under a
// different base URL.
type ChatCompletionProvider struct {
	client  *openai.Client
	name    string
	model   string
	timeout time.Duration
}

func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *ChatCompletionProvider {
	return &ChatCompletionProvider{
		client:  openai.NewClient(apiKey),
		name:    "openai",
		model:   model,
		timeout: timeout,
	}
}

func NewOpenRouterProvider(apiKey, baseURL, model string, timeout time.Duration) *ChatCompletionProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &ChatCompletionProvider{
		client:  openai.NewClientWithConfig(cfg),
		name:    "openrouter",
		model:   model,
		timeout: timeout,
	}
}

func (p *ChatCompletionProvider) Name() string { return p.name }

func (p *ChatCompletionProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSON attempts to extract a valid JSON object or array from the given
// string. It handles cases where the JSON is wrapped in code blocks
// (```json ... ```) or other text.
func extractJSON(s string) string {
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")

	if objStart == -1 && arrStart == -1 {
		return ""
	}

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		end := strings.LastIndex(s, "}")
		if end <= objStart {
			return ""
		}
		return s[objStart : end+1]
	}

	end := strings.LastIndex(s, "]")
	if end <= arrStart {
		return ""
	}
	return s[arrStart : end+1]
}
