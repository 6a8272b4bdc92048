package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/repository/mockrepo"
)

var fecha = time.Date(2025, 8, 16, 19, 0, 0, 0, time.UTC)

type fixtureDeps struct {
	tx      *mockrepo.TxManager
	teams   *mockrepo.TeamRepository
	matches *mockrepo.MatchRepository
	svc     *FixtureService
}

func newFixtureDeps() *fixtureDeps {
	d := &fixtureDeps{
		tx:      &mockrepo.TxManager{},
		teams:   &mockrepo.TeamRepository{},
		matches: &mockrepo.MatchRepository{},
	}
	d.teams.On("LockName", mock.Anything, mock.Anything).Return(nil).Maybe()
	d.svc = NewFixtureService(d.tx, d.teams, d.matches, nil)
	return d
}

func fixture(jornada int, local, visitante string) domain.StructuredFixture {
	return domain.StructuredFixture{
		Jornada:         jornada,
		Fecha:           fecha,
		EquipoLocal:     domain.FixtureTeam{Name: local, Ligas: []string{"X"}},
		EquipoVisitante: domain.FixtureTeam{Name: visitante, Ligas: []string{"X"}},
	}
}

func TestInsertStructured_ConflictWithStoredFixture(t *testing.T) {
	ctx := context.Background()
	d := newFixtureDeps()

	teamA := &domain.Team{ID: "a-id", Name: "A", Ligas: []string{"X"}}
	d.teams.On("GetByName", mock.Anything, "A").Return(teamA, nil)
	d.teams.On("GetByName", mock.Anything, "C").Return(nil, domain.ErrTeamNotFound)
	d.teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).Return(nil)
	d.matches.On("LockJornada", mock.Anything, 1).Return(nil)

	// A уже играет с B в первом туре
	d.matches.On("FindTeamInJornada", mock.Anything, 1, mock.Anything).
		Return(&domain.Match{ID: "m1", Jornada: 1, Team1ID: "a-id", Team2ID: "b-id"}, nil)

	n, err := d.svc.InsertStructured(ctx, []domain.StructuredFixture{fixture(1, "A", "C")})
	require.Error(t, err)
	assert.Zero(t, n)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "A", conflict.Team)
	assert.Equal(t, 1, conflict.Jornada)
	assert.Equal(t, `team "A" already scheduled in jornada 1`, err.Error())

	d.matches.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
}

func TestInsertStructured_ConflictNamesVisitingTeam(t *testing.T) {
	ctx := context.Background()
	d := newFixtureDeps()

	d.teams.On("GetByName", mock.Anything, "C").Return(&domain.Team{ID: "c-id", Name: "C"}, nil)
	d.teams.On("GetByName", mock.Anything, "B").Return(&domain.Team{ID: "b-id", Name: "B"}, nil)
	d.matches.On("LockJornada", mock.Anything, 3).Return(nil)
	d.matches.On("FindTeamInJornada", mock.Anything, 3, []string{"c-id", "b-id"}).
		Return(&domain.Match{Jornada: 3, Team1ID: "a-id", Team2ID: "b-id"}, nil)

	_, err := d.svc.InsertStructured(ctx, []domain.StructuredFixture{fixture(3, "C", "B")})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "B", conflict.Team)
}

func TestInsertStructured_DuplicateInsideBatch(t *testing.T) {
	ctx := context.Background()
	d := newFixtureDeps()

	for _, name := range []string{"A", "B", "C"} {
		d.teams.On("GetByName", mock.Anything, name).
			Return(&domain.Team{ID: name + "-id", Name: name}, nil).Once()
	}
	d.matches.On("LockJornada", mock.Anything, 1).Return(nil)
	d.matches.On("FindTeamInJornada", mock.Anything, 1, mock.Anything).Return(nil, nil).Once()

	_, err := d.svc.InsertStructured(ctx, []domain.StructuredFixture{
		fixture(1, "A", "B"),
		fixture(1, "A", "C"),
	})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "A", conflict.Team)
	assert.Equal(t, 1, conflict.Jornada)

	// Первый матч не записан: вставка всей пачки одной командой в конце
	d.matches.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
	d.matches.AssertNumberOfCalls(t, "FindTeamInJornada", 1)
}

func TestInsertStructured_CreatesTeamsAndLocksJornadasInOrder(t *testing.T) {
	ctx := context.Background()
	d := newFixtureDeps()

	d.teams.On("GetByName", mock.Anything, mock.Anything).Return(nil, domain.ErrTeamNotFound)

	var created []*domain.Team
	d.teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*domain.Team))
		}).
		Return(nil)

	var locked []int
	d.matches.On("LockJornada", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			locked = append(locked, args.Int(1))
		}).
		Return(nil)
	d.matches.On("FindTeamInJornada", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	var staged []*domain.Match
	d.matches.On("InsertMany", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			staged = args.Get(1).([]*domain.Match)
		}).
		Return(2, nil)

	local := domain.FixtureTeam{Name: " A ", Ligas: []string{"X", " Y", "X"}, SelectedCount: -4}
	n, err := d.svc.InsertStructured(ctx, []domain.StructuredFixture{
		{Jornada: 2, Fecha: fecha, EquipoLocal: local, EquipoVisitante: domain.FixtureTeam{Name: "B"}},
		{Jornada: 1, Fecha: fecha, EquipoLocal: local, EquipoVisitante: domain.FixtureTeam{Name: "C"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, d.tx.Calls)

	assert.Equal(t, []int{1, 2}, locked)
	assert.Equal(t, []string{"A", "B", "C"}, lockedNames(d.teams))

	// A создается один раз и переиспользуется во втором матче
	require.Len(t, created, 3)
	assert.Equal(t, "A", created[0].Name)
	assert.Equal(t, []string{"X", "Y"}, created[0].Ligas)
	assert.Zero(t, created[0].SelectedCount)

	require.Len(t, staged, 2)
	assert.Equal(t, staged[0].Team1ID, staged[1].Team1ID)
	assert.Equal(t, 2, staged[0].Jornada)
	assert.NotEmpty(t, staged[0].ID)
}

func TestInsertStructured_TeamCannotPlayItself(t *testing.T) {
	d := newFixtureDeps()

	d.teams.On("GetByName", mock.Anything, "A").Return(&domain.Team{ID: "a-id", Name: "A"}, nil)
	d.matches.On("LockJornada", mock.Anything, 1).Return(nil)

	_, err := d.svc.InsertStructured(context.Background(), []domain.StructuredFixture{fixture(1, "A", "A")})

	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestInsertStructured_RejectsInvalidInputBeforeStore(t *testing.T) {
	cases := map[string]domain.StructuredFixture{
		"zero jornada":  fixture(0, "A", "B"),
		"missing local": fixture(1, " ", "B"),
		"missing fecha": {Jornada: 1, EquipoLocal: domain.FixtureTeam{Name: "A"}, EquipoVisitante: domain.FixtureTeam{Name: "B"}},
		"missing rival": fixture(1, "A", ""),
	}

	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			d := newFixtureDeps()

			_, err := d.svc.InsertStructured(context.Background(), []domain.StructuredFixture{f})

			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Zero(t, d.tx.Calls)
		})
	}
}

func TestInsertStructured_StoreErrorPropagates(t *testing.T) {
	d := newFixtureDeps()
	storeErr := domain.WrapStore(errors.New("connection reset"), "lock jornada")

	d.matches.On("LockJornada", mock.Anything, 1).Return(storeErr)

	_, err := d.svc.InsertStructured(context.Background(), []domain.StructuredFixture{fixture(1, "A", "B")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
}

func TestInsertMatches(t *testing.T) {
	t.Run("assigns ids", func(t *testing.T) {
		d := newFixtureDeps()
		d.matches.On("InsertMany", mock.Anything, mock.Anything).Return(2, nil)

		matches := []*domain.Match{
			{Jornada: 1, Fecha: fecha, Team1ID: "a", Team2ID: "b"},
			{ID: "keep", Jornada: 1, Fecha: fecha, Team1ID: "c", Team2ID: "d"},
		}
		n, err := d.svc.InsertMatches(context.Background(), matches)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NotEmpty(t, matches[0].ID)
		assert.Equal(t, "keep", matches[1].ID)
	})

	t.Run("empty batch", func(t *testing.T) {
		d := newFixtureDeps()

		_, err := d.svc.InsertMatches(context.Background(), nil)

		var validation *domain.ValidationError
		require.True(t, errors.As(err, &validation))
	})
}

func TestInsertStructured_LocksTeamNamesBeforeLookup(t *testing.T) {
	d := newFixtureDeps()

	d.matches.On("LockJornada", mock.Anything, 1).Return(nil)
	d.teams.On("GetByName", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// К моменту поиска все имена пачки уже заблокированы
			assert.Equal(t, []string{"Boca", "River"}, lockedNames(d.teams))
		}).
		Return(nil, domain.ErrTeamNotFound)
	d.teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).Return(nil)
	d.matches.On("FindTeamInJornada", mock.Anything, 1, mock.Anything).Return(nil, nil)
	d.matches.On("InsertMany", mock.Anything, mock.Anything).Return(1, nil)

	_, err := d.svc.InsertStructured(context.Background(), []domain.StructuredFixture{fixture(1, "River ", "Boca")})
	require.NoError(t, err)
	d.teams.AssertNumberOfCalls(t, "LockName", 2)
}

func TestInsertStructured_LockNameErrorPropagates(t *testing.T) {
	d := &fixtureDeps{
		tx:      &mockrepo.TxManager{},
		teams:   &mockrepo.TeamRepository{},
		matches: &mockrepo.MatchRepository{},
	}
	d.svc = NewFixtureService(d.tx, d.teams, d.matches, nil)
	storeErr := domain.WrapStore(errors.New("connection reset"), "lock team name")

	d.matches.On("LockJornada", mock.Anything, 1).Return(nil)
	d.teams.On("LockName", mock.Anything, "A").Return(storeErr)

	_, err := d.svc.InsertStructured(context.Background(), []domain.StructuredFixture{fixture(1, "A", "B")})
	assert.True(t, errors.Is(err, domain.ErrStore))
	d.teams.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
}

func lockedNames(teams *mockrepo.TeamRepository) []string {
	names := make([]string, 0)
	for _, call := range teams.Calls {
		if call.Method == "LockName" {
			names = append(names, call.Arguments.String(1))
		}
	}
	return names
}
