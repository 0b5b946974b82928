package services

import (
	"context"
	"time"

	"github.com/moodsyncai/moodsync/internal/analytics"
	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
	"gorm.io/gorm"
)

// MoodService persists mood entries and derives chart-ready series from them.
// Entries are append-only.
type MoodService struct {
	db *gorm.DB
}

func NewMoodService(db *gorm.DB) *MoodService {
	return &MoodService{db: db}
}

// AddEntry records a mood rating. The 1-5 domain is enforced here, before
// anything reaches storage.
func (s *MoodService) AddEntry(ctx context.Context, userID string, mood int, notes string) (*database.MoodEntry, error) {
	if mood < 1 || mood > 5 {
		return nil, apperrors.NewValidationError("mood must be between 1 and 5")
	}

	entry := &database.MoodEntry{
		UserID: userID,
		Mood:   mood,
		Notes:  notes,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entry, nil
}

// Entries returns the most recent entries, newest first.
func (s *MoodService) Entries(ctx context.Context, userID string, limit int) ([]database.MoodEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []database.MoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// EntriesInRange returns entries between start and end, newest first.
func (s *MoodService) EntriesInRange(ctx context.Context, userID string, start, end time.Time) ([]database.MoodEntry, error) {
	var entries []database.MoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, start, end).
		Order("timestamp DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// Series aggregates the trailing daily window for charting. Only 7 and
// 30-day windows are offered.
func (s *MoodService) Series(ctx context.Context, userID string, days int) ([]analytics.SeriesPoint, error) {
	if days != 7 && days != 30 {
		return nil, apperrors.NewValidationError("series window must be 7 or 30 days")
	}

	now := time.Now()
	start := now.AddDate(0, 0, -(days - 1))
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())

	entries, err := s.EntriesInRange(ctx, userID, dayStart, now)
	if err != nil {
		return nil, err
	}

	samples := make([]analytics.Sample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, analytics.Sample{Mood: e.Mood, At: e.Timestamp})
	}
	return analytics.DailySeries(samples, days, now), nil
}
