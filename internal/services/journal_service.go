package services

import (
	"context"
	"strings"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
	"gorm.io/gorm"
)

// JournalService persists journal entries. Sentiment is computed exactly once
// at creation time and stored with the entry; a classification failure
// propagates rather than storing a wrong silent value.
type JournalService struct {
	db       *gorm.DB
	analysis *AnalysisService
}

func NewJournalService(db *gorm.DB, analysis *AnalysisService) *JournalService {
	return &JournalService{db: db, analysis: analysis}
}

func (s *JournalService) AddEntry(ctx context.Context, userID, title, content string) (*database.JournalEntry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("journal content must not be empty")
	}

	sentiment, err := s.analysis.AnalyzeSentiment(ctx, content)
	if err != nil {
		return nil, err
	}

	entry := &database.JournalEntry{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Sentiment: sentiment,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entry, nil
}

// Entries returns the most recent entries, newest first.
func (s *JournalService) Entries(ctx context.Context, userID string, limit int) ([]database.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []database.JournalEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}
