package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"weekly-challenges/internal/repository"
)

// Stats is a point-in-time count of stored records.
type Stats struct {
	Users            int64
	Challenges       int64
	ActiveChallenges int64
}

// StatsRecorder receives every report, e.g. to export gauges.
type StatsRecorder interface {
	RecordStats(Stats)
}

// StatsService periodically reports store sizes. It never writes.
type StatsService struct {
	userRepo      *repository.UserRepository
	challengeRepo *repository.ChallengeRepository
	recorder      StatsRecorder
	log           logrus.FieldLogger
}

// NewStatsService builds a reporter. recorder may be nil.
func NewStatsService(userRepo *repository.UserRepository, challengeRepo *repository.ChallengeRepository, recorder StatsRecorder, log logrus.FieldLogger) *StatsService {
	return &StatsService{userRepo: userRepo, challengeRepo: challengeRepo, recorder: recorder, log: log}
}

func (s *StatsService) Report(ctx context.Context) (Stats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	total, active, err := s.challengeRepo.CountByActive(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Users: users, Challenges: total, ActiveChallenges: active}
	if s.recorder != nil {
		s.recorder.RecordStats(stats)
	}
	s.log.WithFields(logrus.Fields{
		"users":             stats.Users,
		"challenges":        stats.Challenges,
		"active_challenges": stats.ActiveChallenges,
	}).Info("store stats")
	return stats, nil
}
