package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weekly-challenges/internal/model"
	"weekly-challenges/internal/repository"
)

// Paging defaults for ListChallenges.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
)

// ChallengeService keeps at most one challenge active per user.
type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo}
}

// CreateChallenge replaces the owner's active challenge with a new one seeded
// with seven empty days. Title and week start are stored as given.
func (s *ChallengeService) CreateChallenge(ctx context.Context, owner *model.User, title string, weekStart time.Time) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.CreateActive(ctx, owner.ID, title, weekStart)
	if errors.Is(err, repository.ErrActiveChallengeConflict) {
		return nil, fmt.Errorf("%w: another challenge was created at the same time, retry", ErrConflict)
	}
	return challenge, err
}

func (s *ChallengeService) GetActiveChallenge(ctx context.Context, owner *model.User) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindActive(ctx, owner.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return challenge, nil
}

// GetChallenge returns ErrNotFound both for missing ids and for challenges of other users.
func (s *ChallengeService) GetChallenge(ctx context.Context, owner *model.User, challengeID uint) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindOwned(ctx, owner.ID, challengeID)
	if err != nil {
		return nil, notFound(err)
	}
	return challenge, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context, owner *model.User, skip, limit int) ([]model.Challenge, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must not be negative", ErrInvalidArgument)
	}
	return s.challengeRepo.ListByOwner(ctx, owner.ID, skip, limit)
}
