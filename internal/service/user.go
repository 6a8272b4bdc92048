package service

import (
	"context"
	"strings"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/metrics"
	"github.com/aidar/jornada-service/internal/repository"
)

// UserService handles users and their per-league rosters
type UserService struct {
	txManager repository.TxManager
	userRepo  repository.UserRepository
	teamRepo  repository.TeamRepository
	recorder  *metrics.Recorder
}

// NewUserService creates a new UserService
func NewUserService(
	txManager repository.TxManager,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	recorder *metrics.Recorder,
) *UserService {
	return &UserService{
		txManager: txManager,
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		recorder:  recorder,
	}
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Approve activates a user so that login succeeds
func (s *UserService) Approve(ctx context.Context, userID string) (*domain.User, error) {
	// Update status
	if err := s.userRepo.SetIsActive(ctx, userID, true); err != nil {
		return nil, err
	}

	// Get updated user
	return s.userRepo.GetByID(ctx, userID)
}

// JoinLeague registers the league for the user with an empty roster (idempotent)
func (s *UserService) JoinLeague(ctx context.Context, userID, liga string) (*domain.User, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.JoinLeague(ctx, userID, liga); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// SelectTeam adds the team to the user's roster for the league.
// The roster change and the team selection counter move together in one transaction;
// selecting an already selected team changes neither.
func (s *UserService) SelectTeam(ctx context.Context, userID, liga, teamName string) (*domain.User, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	changed := false
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return err
		}

		equipos, err := s.userRepo.GetLeagueTeamsForUpdate(ctx, userID, liga)
		if err != nil {
			return err
		}

		team, err := resolveTeam(ctx, s.teamRepo, teamName)
		if err != nil {
			return err
		}

		updated, added := domain.AddTeam(equipos, team.Name)
		if !added {
			return nil
		}

		if err := s.userRepo.SetLeagueTeams(ctx, userID, liga, updated); err != nil {
			return err
		}
		if _, err := s.teamRepo.AdjustSelectedCount(ctx, team.ID, 1); err != nil {
			return err
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.recorder.RosterChanged("select")
		s.recorder.SelectionAdjusted(1)
	}
	return s.userRepo.GetByID(ctx, userID)
}

// DeselectTeam removes the team from the user's roster for the league and
// decrements its selection counter in the same transaction. Removing a team
// that is not in the roster is a no-op.
func (s *UserService) DeselectTeam(ctx context.Context, userID, liga, teamName string) (*domain.User, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	changed := false
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return err
		}

		equipos, err := s.userRepo.GetLeagueTeamsForUpdate(ctx, userID, liga)
		if err != nil {
			return err
		}

		stored, ok := domain.SelectedTeam(equipos, strings.TrimSpace(teamName))
		if !ok {
			return nil
		}
		updated, _ := domain.RemoveTeam(equipos, stored)

		if err := s.userRepo.SetLeagueTeams(ctx, userID, liga, updated); err != nil {
			return err
		}

		team, err := resolveTeam(ctx, s.teamRepo, stored)
		if err != nil {
			return err
		}
		if _, err := s.teamRepo.AdjustSelectedCount(ctx, team.ID, -1); err != nil {
			return err
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.recorder.RosterChanged("deselect")
		s.recorder.SelectionAdjusted(-1)
	}
	return s.userRepo.GetByID(ctx, userID)
}

// GetSelections returns the teams the user picked in the league
func (s *UserService) GetSelections(ctx context.Context, userID, liga string) ([]string, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := user.League(liga)
	if entry == nil {
		return nil, domain.ErrLeagueNotRegistered
	}
	return entry.EquiposSeleccionados, nil
}
