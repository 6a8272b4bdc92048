package service

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/repository"
)

// LeagueService derives league projections from team league tags.
// There is no stored league: a league is the set of teams carrying its tag,
// and a match belongs to it only when both teams carry the tag.
type LeagueService struct {
	teamRepo  repository.TeamRepository
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
}

// NewLeagueService creates a new LeagueService
func NewLeagueService(
	teamRepo repository.TeamRepository,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
) *LeagueService {
	return &LeagueService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		userRepo:  userRepo,
	}
}

// TeamsByLeague groups teams under every league tag they carry, leagues sorted by tag
func (s *LeagueService) TeamsByLeague(ctx context.Context) ([]domain.LeagueTeams, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byLeague := make(map[string][]domain.TeamSummary)
	for _, team := range teams {
		for _, liga := range team.Ligas {
			byLeague[liga] = append(byLeague[liga], domain.TeamSummary{Name: team.Name, Logo: team.Logo})
		}
	}

	result := make([]domain.LeagueTeams, 0, len(byLeague))
	for _, liga := range slices.Sorted(maps.Keys(byLeague)) {
		result = append(result, domain.LeagueTeams{Liga: liga, Equipos: byLeague[liga]})
	}
	return result, nil
}

// MatchesByJornada returns all matches of a jornada with both teams resolved
func (s *LeagueService) MatchesByJornada(ctx context.Context, jornada int) ([]*domain.Match, error) {
	if jornada <= 0 {
		return nil, domain.NewValidationError("jornada", "must be positive")
	}
	return s.matchRepo.ListByJornada(ctx, jornada)
}

// MatchesByJornadaAndLeague returns the jornada matches whose both teams carry the tag
func (s *LeagueService) MatchesByJornadaAndLeague(ctx context.Context, jornada int, liga string) ([]*domain.Match, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	matches, err := s.MatchesByJornada(ctx, jornada)
	if err != nil {
		return nil, err
	}
	return filterByLeague(matches, liga), nil
}

// MatchesByTeam returns every match the team takes part in
func (s *LeagueService) MatchesByTeam(ctx context.Context, teamID string) ([]*domain.Match, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, domain.NewValidationError("teamId", "is required")
	}
	return s.matchRepo.ListByTeam(ctx, teamID)
}

// JornadasByLeague returns the distinct jornadas of the league matches, ascending
func (s *LeagueService) JornadasByLeague(ctx context.Context, liga string) ([]int, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return jornadasOf(filterByLeague(matches, liga)), nil
}

// Summary collects the league teams, jornadas and member count concurrently
func (s *LeagueService) Summary(ctx context.Context, liga string) (*domain.LeagueSummary, error) {
	liga, err := leagueTag(liga)
	if err != nil {
		return nil, err
	}

	summary := &domain.LeagueSummary{Liga: liga}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		teams, err := s.teamRepo.ListByLeague(ctx, liga)
		if err != nil {
			return err
		}
		summary.Equipos = make([]domain.TeamSummary, 0, len(teams))
		for _, team := range teams {
			summary.Equipos = append(summary.Equipos, domain.TeamSummary{Name: team.Name, Logo: team.Logo})
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		jornadas, err := s.JornadasByLeague(ctx, liga)
		summary.Jornadas = jornadas
		return err
	})
	p.Go(func(ctx context.Context) error {
		count, err := s.userRepo.CountByLeague(ctx, liga)
		summary.Usuarios = count
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func leagueTag(liga string) (string, error) {
	liga = strings.TrimSpace(liga)
	if liga == "" {
		return "", domain.NewValidationError("liga", "is required")
	}
	return liga, nil
}

func filterByLeague(matches []*domain.Match, liga string) []*domain.Match {
	out := make([]*domain.Match, 0, len(matches))
	for _, m := range matches {
		if m.InLeague(liga) {
			out = append(out, m)
		}
	}
	return out
}

func jornadasOf(matches []*domain.Match) []int {
	jornadas := make([]int, 0, len(matches))
	for _, m := range matches {
		jornadas = append(jornadas, m.Jornada)
	}
	slices.Sort(jornadas)
	return slices.Compact(jornadas)
}
