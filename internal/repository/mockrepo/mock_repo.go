// Package mockrepo содержит testify-моки репозиториев для unit-тестов сервисов
package mockrepo

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aidar/jornada-service/internal/domain"
)

// TxManager выполняет fn сразу, без транзакции, и запоминает вызов
type TxManager struct {
	Calls int
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

type TeamRepository struct {
	mock.Mock
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	args := r.Called(ctx, team)
	return args.Error(0)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	args := r.Called(ctx, teamID)
	return team(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	args := r.Called(ctx, name)
	return team(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) FindByNameFold(ctx context.Context, name string) (*domain.Team, error) {
	args := r.Called(ctx, name)
	return team(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	args := r.Called(ctx)
	return teams(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) ListByLeague(ctx context.Context, liga string) ([]*domain.Team, error) {
	args := r.Called(ctx, liga)
	return teams(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) ListSelectedCounts(ctx context.Context) ([]domain.TeamSelection, error) {
	args := r.Called(ctx)

	var s []domain.TeamSelection
	if args.Get(0) != nil {
		s = args.Get(0).([]domain.TeamSelection)
	}
	return s, args.Error(1)
}

func (r *TeamRepository) AdjustSelectedCount(ctx context.Context, teamID string, delta int) (*domain.Team, error) {
	args := r.Called(ctx, teamID, delta)
	return team(args.Get(0)), args.Error(1)
}

func (r *TeamRepository) LockName(ctx context.Context, name string) error {
	args := r.Called(ctx, name)
	return args.Error(0)
}

func (r *TeamRepository) RecountSelected(ctx context.Context) (int64, error) {
	args := r.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MatchRepository struct {
	mock.Mock
}

func (r *MatchRepository) InsertMany(ctx context.Context, matches []*domain.Match) (int, error) {
	args := r.Called(ctx, matches)
	return args.Int(0), args.Error(1)
}

func (r *MatchRepository) LockJornada(ctx context.Context, jornada int) error {
	args := r.Called(ctx, jornada)
	return args.Error(0)
}

func (r *MatchRepository) FindTeamInJornada(ctx context.Context, jornada int, teamIDs []string) (*domain.Match, error) {
	args := r.Called(ctx, jornada, teamIDs)

	var m *domain.Match
	if args.Get(0) != nil {
		m = args.Get(0).(*domain.Match)
	}
	return m, args.Error(1)
}

func (r *MatchRepository) ListByJornada(ctx context.Context, jornada int) ([]*domain.Match, error) {
	args := r.Called(ctx, jornada)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.Match, error) {
	args := r.Called(ctx, teamID)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListAll(ctx context.Context) ([]*domain.Match, error) {
	args := r.Called(ctx)
	return matches(args.Get(0)), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := r.Called(ctx, user)
	return args.Error(0)
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := r.Called(ctx, userID)
	return user(args.Get(0)), args.Error(1)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := r.Called(ctx, email)
	return user(args.Get(0)), args.Error(1)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := r.Called(ctx)

	var u []*domain.User
	if args.Get(0) != nil {
		u = args.Get(0).([]*domain.User)
	}
	return u, args.Error(1)
}

func (r *UserRepository) SetIsActive(ctx context.Context, userID string, isActive bool) error {
	args := r.Called(ctx, userID, isActive)
	return args.Error(0)
}

func (r *UserRepository) JoinLeague(ctx context.Context, userID, liga string) error {
	args := r.Called(ctx, userID, liga)
	return args.Error(0)
}

func (r *UserRepository) GetLeagueTeamsForUpdate(ctx context.Context, userID, liga string) ([]string, error) {
	args := r.Called(ctx, userID, liga)

	var equipos []string
	if args.Get(0) != nil {
		equipos = args.Get(0).([]string)
	}
	return equipos, args.Error(1)
}

func (r *UserRepository) SetLeagueTeams(ctx context.Context, userID, liga string, equipos []string) error {
	args := r.Called(ctx, userID, liga, equipos)
	return args.Error(0)
}

func (r *UserRepository) CountByLeague(ctx context.Context, liga string) (int, error) {
	args := r.Called(ctx, liga)
	return args.Int(0), args.Error(1)
}

func team(v any) *domain.Team {
	if v == nil {
		return nil
	}
	return v.(*domain.Team)
}

func teams(v any) []*domain.Team {
	if v == nil {
		return nil
	}
	return v.([]*domain.Team)
}

func matches(v any) []*domain.Match {
	if v == nil {
		return nil
	}
	return v.([]*domain.Match)
}

func user(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}
