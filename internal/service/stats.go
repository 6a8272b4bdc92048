package service

import (
	"context"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/logging"
	"github.com/aidar/jornada-service/internal/repository"
)

// RecountResult reports how many team counters were corrected
type RecountResult struct {
	Corrected int64 `json:"corrected"`
}

// StatsService handles popularity statistics
type StatsService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *StatsService {
	return &StatsService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// SelectedCounts returns the name and selection counter of every team
func (s *StatsService) SelectedCounts(ctx context.Context) ([]domain.TeamSelection, error) {
	return s.teamRepo.ListSelectedCounts(ctx)
}

// UsersByLeague counts users that joined the league
func (s *StatsService) UsersByLeague(ctx context.Context, liga string) (int, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return 0, err
	}
	return s.userRepo.CountByLeague(ctx, liga)
}

// Recount rebuilds every selection counter from the user rosters
func (s *StatsService) Recount(ctx context.Context) (*RecountResult, error) {
	corrected, err := s.teamRepo.RecountSelected(ctx)
	if err != nil {
		return nil, err
	}

	if corrected > 0 {
		logging.FromContext(ctx).Warn("selection counters drifted from rosters", "corrected", corrected)
	}
	return &RecountResult{Corrected: corrected}, nil
}
