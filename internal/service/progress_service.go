package service

import (
	"context"
	"time"

	"weekly-challenges/internal/model"
	"weekly-challenges/internal/repository"
)

// Summary is a derived view over the days of one challenge.
type Summary struct {
	ChallengeID       uint
	Title             string
	IsActive          bool
	CompletedDays     int
	TotalDays         int
	CompletionRate    float64
	AverageDifficulty *float64
	CurrentStreak     int
	LongestStreak     int
	NotesCount        int
	// TodayIndex is the day of the week that now falls on, nil outside the challenge week.
	TodayIndex *int
}

// ProgressService builds summaries for challenge weeks.
type ProgressService struct {
	challengeRepo *repository.ChallengeRepository
	entryRepo     *repository.DailyEntryRepository
}

func NewProgressService(challengeRepo *repository.ChallengeRepository, entryRepo *repository.DailyEntryRepository) *ProgressService {
	return &ProgressService{challengeRepo: challengeRepo, entryRepo: entryRepo}
}

// Summarize follows the same ownership rule as DayService.GetDays.
func (s *ProgressService) Summarize(ctx context.Context, owner *model.User, challengeID uint, now time.Time) (*Summary, error) {
	challenge, err := s.challengeRepo.FindOwned(ctx, owner.ID, challengeID)
	if err != nil {
		return nil, notFound(err)
	}
	entries, err := s.entryRepo.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	summary := summarize(entries)
	summary.ChallengeID = challenge.ID
	summary.Title = challenge.Title
	summary.IsActive = challenge.IsActive
	summary.TodayIndex = dayIndexAt(challenge.WeekStartDate, now)
	return &summary, nil
}

// summarize expects entries ordered by day index.
func summarize(entries []model.DailyEntry) Summary {
	summary := Summary{TotalDays: model.DaysPerChallenge}

	var (
		difficultySum   int
		difficultyCount int
		run             int
		lastCompleted   = -1
	)
	for _, entry := range entries {
		if entry.Note != nil && *entry.Note != "" {
			summary.NotesCount++
		}
		if entry.Difficulty != nil {
			difficultySum += *entry.Difficulty
			difficultyCount++
		}
		if !entry.Completed {
			run = 0
			continue
		}
		summary.CompletedDays++
		run++
		lastCompleted = entry.DayIndex
		if run > summary.LongestStreak {
			summary.LongestStreak = run
		}
	}

	// Streak that ends on the most recent completed day.
	if lastCompleted >= 0 {
		byDay := make(map[int]bool, len(entries))
		for _, entry := range entries {
			byDay[entry.DayIndex] = entry.Completed
		}
		for day := lastCompleted; day >= 0 && byDay[day]; day-- {
			summary.CurrentStreak++
		}
	}

	summary.CompletionRate = float64(summary.CompletedDays) / float64(model.DaysPerChallenge)
	if difficultyCount > 0 {
		avg := float64(difficultySum) / float64(difficultyCount)
		summary.AverageDifficulty = &avg
	}
	return summary
}

func dayIndexAt(weekStart, now time.Time) *int {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	if now.Before(start) {
		return nil
	}
	day := int(now.Sub(start) / (24 * time.Hour))
	if !model.ValidDayIndex(day) {
		return nil
	}
	return &day
}
