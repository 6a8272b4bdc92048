package service

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/logging"
	"github.com/aidar/jornada-service/internal/metrics"
	"github.com/aidar/jornada-service/internal/repository"
)

// BlobStore persists uploaded logos and returns a stable reference for Team.Logo
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// NewTeamInput describes a team created by an admin upload
type NewTeamInput struct {
	Name     string
	Ligas    []string
	LogoName string
	Logo     io.Reader
}

// TeamService handles the team registry and the selection counter
type TeamService struct {
	teamRepo repository.TeamRepository
	blobs    BlobStore
	recorder *metrics.Recorder
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, blobs BlobStore, recorder *metrics.Recorder) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		blobs:    blobs,
		recorder: recorder,
	}
}

// ListTeams returns every team
func (s *TeamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	return s.teamRepo.List(ctx)
}

// GetTeam retrieves a team by ID
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, domain.NewValidationError("teamId", "is required")
	}
	return s.teamRepo.GetByID(ctx, teamID)
}

// FindByName looks a team up by name ignoring case
func (s *TeamService) FindByName(ctx context.Context, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	return s.teamRepo.FindByNameFold(ctx, name)
}

// CreateTeamWithLogo stores the logo and creates the team pointing at it.
// The stored blob is removed again if the team cannot be created.
func (s *TeamService) CreateTeamWithLogo(ctx context.Context, in NewTeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(in.Name)
	ligas := domain.NormalizeLeagueTags(in.Ligas)
	if in.Logo == nil || name == "" || len(ligas) == 0 {
		return nil, domain.NewValidationError("", "missing logo, name or liga")
	}

	ref, err := s.blobs.Save(ctx, in.LogoName, in.Logo)
	if err != nil {
		return nil, errors.Wrap(err, "save logo")
	}

	team := &domain.Team{
		ID:    uuid.NewString(),
		Name:  name,
		Logo:  ref,
		Ligas: ligas,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			logging.FromContext(ctx).Warn("failed to remove orphaned logo", "ref", ref, "error", delErr)
		}
		return nil, err
	}

	return team, nil
}

// IncrementSelected adds one to the selection counter of the named team
func (s *TeamService) IncrementSelected(ctx context.Context, teamName string) (*domain.Team, error) {
	return s.adjustSelected(ctx, teamName, 1)
}

// DecrementSelected subtracts one from the selection counter of the named team (floored at zero)
func (s *TeamService) DecrementSelected(ctx context.Context, teamName string) (*domain.Team, error) {
	return s.adjustSelected(ctx, teamName, -1)
}

func (s *TeamService) adjustSelected(ctx context.Context, teamName string, delta int) (*domain.Team, error) {
	team, err := resolveTeam(ctx, s.teamRepo, teamName)
	if err != nil {
		return nil, err
	}

	updated, err := s.teamRepo.AdjustSelectedCount(ctx, team.ID, delta)
	if err != nil {
		return nil, err
	}

	s.recorder.SelectionAdjusted(delta)
	return updated, nil
}

// resolveTeam maps a team name from the boundary onto a stored team:
// exact match first, then a case-insensitive one.
func resolveTeam(ctx context.Context, repo repository.TeamRepository, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("team", "name is required")
	}

	team, err := repo.GetByName(ctx, name)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, domain.ErrTeamNotFound) {
		return nil, err
	}

	return repo.FindByNameFold(ctx, name)
}
