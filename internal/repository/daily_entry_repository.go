package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"weekly-challenges/internal/model"
)

// DailyEntryRepository reads and updates the days of a challenge.
type DailyEntryRepository struct {
	db *gorm.DB
}

func NewDailyEntryRepository(db *gorm.DB) *DailyEntryRepository {
	return &DailyEntryRepository{db: db}
}

// EntryValues is the full set of mutable fields of a day.
type EntryValues struct {
	Completed  bool
	Difficulty *int
	Note       *string
}

func (r *DailyEntryRepository) ListByChallenge(ctx context.Context, challengeID uint) ([]model.DailyEntry, error) {
	entries := []model.DailyEntry{}
	if err := r.db.WithContext(ctx).Where("challenge_id = ?", challengeID).
		Order("day_index ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceOwned overwrites the day of a challenge owned by ownerID. Nil
// difficulty or note are stored as NULL. Returns gorm.ErrRecordNotFound when
// the challenge is not owned or the day is missing.
func (r *DailyEntryRepository) ReplaceOwned(ctx context.Context, ownerID, challengeID uint, dayIndex int, values EntryValues) (*model.DailyEntry, error) {
	var entry model.DailyEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var challenge model.Challenge
		if err := tx.Select("id").Where("owner_id = ? AND id = ?", ownerID, challengeID).First(&challenge).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ? AND day_index = ?", challengeID, dayIndex).First(&entry).Error; err != nil {
			return err
		}
		entry.Completed = values.Completed
		entry.Difficulty = values.Difficulty
		entry.Note = values.Note
		if err := tx.Model(&entry).Select("completed", "difficulty", "note").Updates(&entry).Error; err != nil {
			return fmt.Errorf("update daily entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
