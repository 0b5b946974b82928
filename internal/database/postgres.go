package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moodsyncai/moodsync/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Sentiment is the structured judgment stored with a journal entry. Rating is
// an integer in [1,5], confidence a float in [0,1]; both are clamped before
// anything reaches this struct.
type Sentiment struct {
	Rating          int     `json:"rating"`
	Confidence      float64 `json:"confidence"`
	DominantEmotion string  `json:"dominant_emotion"`
}

// ToneAnalysis is the structured judgment stored with a chat message.
type ToneAnalysis struct {
	Tone           string  `json:"tone"`
	Confidence     float64 `json:"confidence"`
	EmotionalState string  `json:"emotional_state"`
}

// NotificationSettings controls the per-user reminder toggles.
type NotificationSettings struct {
	DailyReminders bool `json:"dailyReminders"`
	MoodTracking   bool `json:"moodTracking"`
	Journaling     bool `json:"journaling"`
}

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MoodEntry is a single 1-5 rating at a point in time. Entries are
// append-only; there is no update path.
type MoodEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Mood      int       `gorm:"not null" json:"mood"` // 1-5 scale
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

type JournalEntry struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;not null" json:"userId"`
	User      User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string     `json:"title,omitempty"`
	Content   string     `gorm:"not null" json:"content"`
	Sentiment *Sentiment `gorm:"serializer:json" json:"sentiment,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ChatMessage struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	UserID    string        `gorm:"index;not null" json:"userId"`
	User      User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content   string        `gorm:"not null" json:"content"`
	Role      string        `gorm:"not null" json:"role"` // "user" or "assistant"
	Tone      *ToneAnalysis `gorm:"serializer:json" json:"tone,omitempty"`
	Timestamp time.Time     `gorm:"index" json:"timestamp"`
}

type UserPreferences struct {
	ID                   string               `gorm:"primaryKey" json:"id"`
	UserID               string               `gorm:"uniqueIndex;not null" json:"userId"`
	User                 User                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Hobbies              []string             `gorm:"serializer:json" json:"hobbies"`
	PreferredTone        string               `gorm:"default:empathetic" json:"preferredTone"`
	NotificationSettings NotificationSettings `gorm:"serializer:json" json:"notificationSettings"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (m *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (c *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	return nil
}

func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&MoodEntry{},
		&JournalEntry{},
		&ChatMessage{},
		&UserPreferences{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return db, nil
}
