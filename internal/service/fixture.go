package service

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/logging"
	"github.com/aidar/jornada-service/internal/metrics"
	"github.com/aidar/jornada-service/internal/repository"
)

// FixtureService handles fixture ingestion
type FixtureService struct {
	txManager repository.TxManager
	teamRepo  repository.TeamRepository
	matchRepo repository.MatchRepository
	recorder  *metrics.Recorder
}

// NewFixtureService creates a new FixtureService
func NewFixtureService(
	txManager repository.TxManager,
	teamRepo repository.TeamRepository,
	matchRepo repository.MatchRepository,
	recorder *metrics.Recorder,
) *FixtureService {
	return &FixtureService{
		txManager: txManager,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		recorder:  recorder,
	}
}

// InsertMatches inserts fully formed matches as they are, without cross-fixture checks.
// Callers are expected to have resolved teams and verified uniqueness themselves.
func (s *FixtureService) InsertMatches(ctx context.Context, matches []*domain.Match) (int, error) {
	if len(matches) == 0 {
		return 0, domain.NewValidationError("matches", "at least one match is required")
	}

	for _, m := range matches {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
	}

	var inserted int
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.matchRepo.InsertMany(ctx, matches)
		inserted = n
		return err
	})
	if err != nil {
		return 0, err
	}

	s.recorder.FixturesInserted("raw", inserted)
	return inserted, nil
}

// slot identifies a team inside a jornada
type slot struct {
	jornada int
	teamID  string
}

// InsertStructured inserts fixtures given by team names.
// Teams are found or created, and no team may play twice in the same jornada,
// neither against the stored fixtures nor inside the batch. The whole batch,
// including created teams, is written in one transaction or not at all.
func (s *FixtureService) InsertStructured(ctx context.Context, fixtures []domain.StructuredFixture) (int, error) {
	if len(fixtures) == 0 {
		return 0, domain.NewValidationError("matches", "at least one match is required")
	}
	for i := range fixtures {
		if err := validateFixture(&fixtures[i]); err != nil {
			return 0, err
		}
	}

	var inserted int
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// Блокировки берутся по возрастанию тура, чтобы параллельные вставки не взаимоблокировались
		for _, jornada := range distinctJornadas(fixtures) {
			if err := s.matchRepo.LockJornada(ctx, jornada); err != nil {
				return err
			}
		}
		// Затем имена команд по возрастанию: поиск и создание по имени не гонятся с пачками других туров
		for _, name := range distinctTeamNames(fixtures) {
			if err := s.teamRepo.LockName(ctx, name); err != nil {
				return err
			}
		}

		teams := make(map[string]*domain.Team)
		scheduled := make(map[slot]struct{})
		staged := make([]*domain.Match, 0, len(fixtures))

		for _, f := range fixtures {
			local, err := s.findOrCreateTeam(ctx, teams, f.EquipoLocal)
			if err != nil {
				return err
			}
			visitante, err := s.findOrCreateTeam(ctx, teams, f.EquipoVisitante)
			if err != nil {
				return err
			}
			if local.ID == visitante.ID {
				return domain.NewValidationError("equipoVisitante", "team cannot play itself")
			}

			for _, team := range []*domain.Team{local, visitante} {
				if _, taken := scheduled[slot{f.Jornada, team.ID}]; taken {
					return &domain.ConflictError{Team: team.Name, Jornada: f.Jornada}
				}
			}

			existing, err := s.matchRepo.FindTeamInJornada(ctx, f.Jornada, []string{local.ID, visitante.ID})
			if err != nil {
				return err
			}
			if existing != nil {
				collided := local
				if !existing.Involves(local.ID) {
					collided = visitante
				}
				return &domain.ConflictError{Team: collided.Name, Jornada: f.Jornada}
			}

			scheduled[slot{f.Jornada, local.ID}] = struct{}{}
			scheduled[slot{f.Jornada, visitante.ID}] = struct{}{}
			staged = append(staged, &domain.Match{
				ID:        uuid.NewString(),
				Jornada:   f.Jornada,
				Fecha:     f.Fecha,
				Team1ID:   local.ID,
				Team2ID:   visitante.ID,
				Resultado: f.Resultado,
			})
		}

		n, err := s.matchRepo.InsertMany(ctx, staged)
		inserted = n
		return err
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.recorder.FixtureConflict()
			logging.FromContext(ctx).Info("structured insert rejected",
				"team", conflict.Team, "jornada", conflict.Jornada)
		}
		return 0, err
	}

	s.recorder.FixturesInserted("structured", inserted)
	return inserted, nil
}

// findOrCreateTeam resolves a fixture team by exact name, creating it on first sight.
// Teams resolved earlier in the batch are reused.
func (s *FixtureService) findOrCreateTeam(ctx context.Context, cache map[string]*domain.Team, in domain.FixtureTeam) (*domain.Team, error) {
	name := strings.TrimSpace(in.Name)
	if team, ok := cache[name]; ok {
		return team, nil
	}

	team, err := s.teamRepo.GetByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTeamNotFound):
		team = &domain.Team{
			ID:            uuid.NewString(),
			Name:          name,
			Logo:          in.Logo,
			Ligas:         domain.NormalizeLeagueTags(in.Ligas),
			SelectedCount: max(in.SelectedCount, 0),
		}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	cache[name] = team
	return team, nil
}

func validateFixture(f *domain.StructuredFixture) error {
	switch {
	case f.Jornada <= 0:
		return domain.NewValidationError("jornada", "must be positive")
	case strings.TrimSpace(f.EquipoLocal.Name) == "":
		return domain.NewValidationError("equipoLocal.name", "is required")
	case strings.TrimSpace(f.EquipoVisitante.Name) == "":
		return domain.NewValidationError("equipoVisitante.name", "is required")
	case f.Fecha.IsZero():
		return domain.NewValidationError("fecha", "is required")
	}
	return nil
}

func distinctTeamNames(fixtures []domain.StructuredFixture) []string {
	names := make([]string, 0, 2*len(fixtures))
	for _, f := range fixtures {
		names = append(names, strings.TrimSpace(f.EquipoLocal.Name), strings.TrimSpace(f.EquipoVisitante.Name))
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func distinctJornadas(fixtures []domain.StructuredFixture) []int {
	jornadas := make([]int, 0, len(fixtures))
	for _, f := range fixtures {
		jornadas = append(jornadas, f.Jornada)
	}
	slices.Sort(jornadas)
	return slices.Compact(jornadas)
}
