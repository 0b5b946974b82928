package services

import (
	"context"
	"errors"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
	"gorm.io/gorm"
)

// PreferencesService manages per-user preferences, creating them lazily with
// defaults on first access.
type PreferencesService struct {
	db *gorm.DB
}

func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

func defaultPreferences(userID string) *database.UserPreferences {
	return &database.UserPreferences{
		UserID:        userID,
		Hobbies:       []string{"reading", "music", "art"},
		PreferredTone: "empathetic",
		NotificationSettings: database.NotificationSettings{
			DailyReminders: true,
			MoodTracking:   true,
			Journaling:     true,
		},
	}
}

// Get returns the user's preferences, creating the default row if none exist.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*database.UserPreferences, error) {
	var prefs database.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(err)
	}

	created := defaultPreferences(userID)
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return created, nil
}

// PreferencesUpdate carries the updatable fields; nil fields are untouched.
type PreferencesUpdate struct {
	Hobbies              *[]string                      `json:"hobbies"`
	PreferredTone        *string                        `json:"preferredTone"`
	NotificationSettings *database.NotificationSettings `json:"notificationSettings"`
}

// Update applies a partial update, creating the defaults first when the user
// has no preferences row yet.
func (s *PreferencesService) Update(ctx context.Context, userID string, update PreferencesUpdate) (*database.UserPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Hobbies != nil {
		prefs.Hobbies = *update.Hobbies
	}
	if update.PreferredTone != nil {
		prefs.PreferredTone = *update.PreferredTone
	}
	if update.NotificationSettings != nil {
		prefs.NotificationSettings = *update.NotificationSettings
	}

	if err := s.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return prefs, nil
}
