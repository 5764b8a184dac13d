package service

import (
	"context"
	"fmt"

	"weekly-challenges/internal/model"
	"weekly-challenges/internal/repository"
)

// DayUpdate replaces every mutable field of a day. Nil clears the value.
type DayUpdate struct {
	Completed  bool
	Difficulty *int
	Note       *string
}

// DayService reads and updates the days of a user's challenges.
type DayService struct {
	challengeRepo *repository.ChallengeRepository
	entryRepo     *repository.DailyEntryRepository
}

func NewDayService(challengeRepo *repository.ChallengeRepository, entryRepo *repository.DailyEntryRepository) *DayService {
	return &DayService{challengeRepo: challengeRepo, entryRepo: entryRepo}
}

// GetDays returns the seven days of an owned challenge ordered Monday first.
func (s *DayService) GetDays(ctx context.Context, owner *model.User, challengeID uint) ([]model.DailyEntry, error) {
	if _, err := s.challengeRepo.FindOwned(ctx, owner.ID, challengeID); err != nil {
		return nil, notFound(err)
	}
	return s.entryRepo.ListByChallenge(ctx, challengeID)
}

func (s *DayService) UpdateDay(ctx context.Context, owner *model.User, challengeID uint, dayIndex int, update DayUpdate) (*model.DailyEntry, error) {
	if !model.ValidDayIndex(dayIndex) {
		return nil, fmt.Errorf("%w: day_index must be between 0 and 6", ErrInvalidArgument)
	}
	entry, err := s.entryRepo.ReplaceOwned(ctx, owner.ID, challengeID, dayIndex, repository.EntryValues{
		Completed:  update.Completed,
		Difficulty: update.Difficulty,
		Note:       update.Note,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return entry, nil
}
