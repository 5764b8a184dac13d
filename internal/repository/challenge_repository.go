package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"weekly-challenges/internal/model"
)

// ErrActiveChallengeConflict is returned when another active challenge for the
// same owner was committed while CreateActive ran.
var ErrActiveChallengeConflict = errors.New("concurrent active challenge")

// ChallengeRepository handles challenges and seeds their daily entries.
type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// CreateActive deactivates the owner's current challenge, inserts a new active
// one and its seven empty days, all in a single transaction.
func (r *ChallengeRepository) CreateActive(ctx context.Context, ownerID uint, title string, weekStart time.Time) (*model.Challenge, error) {
	challenge := model.Challenge{
		OwnerID:       ownerID,
		Title:         title,
		IsActive:      true,
		WeekStartDate: weekStart,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Challenge{}).
			Where("owner_id = ? AND is_active = ?", ownerID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate challenges: %w", err)
		}
		if err := tx.Create(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrActiveChallengeConflict
			}
			return fmt.Errorf("create challenge: %w", err)
		}
		entries := make([]model.DailyEntry, 0, model.DaysPerChallenge)
		for day := 0; day < model.DaysPerChallenge; day++ {
			entries = append(entries, model.DailyEntry{ChallengeID: challenge.ID, DayIndex: day})
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("create daily entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindActive(ctx context.Context, ownerID uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND is_active = ?", ownerID, true).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindOwned returns the challenge only when it belongs to ownerID.
func (r *ChallengeRepository) FindOwned(ctx context.Context, ownerID, challengeID uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, challengeID).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]model.Challenge, error) {
	challenges := []model.Challenge{}
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// CountByActive returns total and active challenge counts across all owners.
func (r *ChallengeRepository) CountByActive(ctx context.Context) (total, active int64, err error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Challenge{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count challenges: %w", err)
	}
	if err := db.Model(&model.Challenge{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("count active challenges: %w", err)
	}
	return total, active, nil
}
