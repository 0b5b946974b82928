package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/moodsyncai/moodsync/internal/logger"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	AI       AIConfig
	Auth     AuthConfig
	Fallback FallbackConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

// AIConfig describes the reachable text-generation providers. Gemini is the
// primary provider, OpenRouter the refinement/recommendation provider and
// OpenAI the recommendation fallback.
type AIConfig struct {
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	RequestTimeout    time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// FallbackConfig holds the texts substituted when a provider call fails.
// They ship with defaults but stay configurable.
type FallbackConfig struct {
	ChatReply      string
	FollowUp       string
	DefaultInsight string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "moodsync"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		AI: AIConfig{
			GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
			GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
			OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
			OpenRouterBaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenRouterModel:   getEnvOrDefault("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),
			RequestTimeout:    getDurationOrDefault("AI_REQUEST_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("JWT_SECRET", "moodsync-dev-secret"),
			TokenTTL:  getDurationOrDefault("JWT_TOKEN_TTL", 72*time.Hour),
		},
		Fallback: FallbackConfig{
			ChatReply: getEnvOrDefault("FALLBACK_CHAT_REPLY",
				"I'm here to listen and support you. Could you tell me more about how you're feeling?"),
			FollowUp: getEnvOrDefault("FALLBACK_FOLLOW_UP",
				"How are you feeling about this?"),
			DefaultInsight: getEnvOrDefault("FALLBACK_INSIGHT",
				"Your mood tracking shows great self-awareness. Keep up the good work!"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

// Validate reports the configuration problems that would prevent the service
// from doing anything useful.
func (c *Config) Validate() error {
	var problems []string
	if c.AI.GeminiAPIKey == "" {
		problems = append(problems, "GEMINI_API_KEY is not set")
	}
	if c.AI.OpenAIAPIKey == "" && c.AI.OpenRouterAPIKey == "" {
		problems = append(problems, "neither OPENAI_API_KEY nor OPENROUTER_API_KEY is set")
	}
	if c.DB.DBName == "" {
		problems = append(problems, "DB_NAME is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
