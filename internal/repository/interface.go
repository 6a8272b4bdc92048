package repository

import (
	"context"

	"github.com/aidar/jornada-service/internal/domain"
)

// TxManager выполняет функцию в одной транзакции БД.
// Репозитории, вызванные с переданным контекстом, работают внутри этой транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает новую команду
	Create(ctx context.Context, team *domain.Team) error

	// GetByID получает команду по ID
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)

	// GetByName получает команду по точному совпадению имени
	GetByName(ctx context.Context, name string) (*domain.Team, error)

	// FindByNameFold получает команду по имени без учета регистра
	FindByNameFold(ctx context.Context, name string) (*domain.Team, error)

	// List возвращает все команды
	List(ctx context.Context) ([]*domain.Team, error)

	// ListByLeague возвращает команды, несущие тег лиги
	ListByLeague(ctx context.Context, liga string) ([]*domain.Team, error)

	// ListSelectedCounts возвращает проекцию (имя, число выборов)
	ListSelectedCounts(ctx context.Context) ([]domain.TeamSelection, error)

	// AdjustSelectedCount атомарно меняет счетчик выборов (не опускается ниже нуля)
	AdjustSelectedCount(ctx context.Context, teamID string, delta int) (*domain.Team, error)

	// LockName сериализует поиск и создание команды по имени до конца транзакции
	LockName(ctx context.Context, name string) error

	// RecountSelected пересчитывает счетчики по ростерам пользователей
	RecountSelected(ctx context.Context) (int64, error)
}

// MatchRepository определяет методы для работы с матчами
type MatchRepository interface {
	// InsertMany вставляет матчи как есть и возвращает число вставленных
	InsertMany(ctx context.Context, matches []*domain.Match) (int, error)

	// LockJornada берет транзакционную блокировку тура до конца транзакции
	LockJornada(ctx context.Context, jornada int) error

	// FindTeamInJornada возвращает любой матч тура с участием одной из команд, либо nil
	FindTeamInJornada(ctx context.Context, jornada int, teamIDs []string) (*domain.Match, error)

	// ListByJornada возвращает матчи тура с заполненными командами
	ListByJornada(ctx context.Context, jornada int) ([]*domain.Match, error)

	// ListByTeam возвращает матчи, где команда одна из участниц
	ListByTeam(ctx context.Context, teamID string) ([]*domain.Match, error)

	// ListAll возвращает все матчи с заполненными командами
	ListAll(ctx context.Context) ([]*domain.Match, error)
}

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя вместе с его лигами
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// GetByEmail получает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List возвращает всех пользователей
	List(ctx context.Context) ([]*domain.User, error)

	// SetIsActive обновляет статус активности пользователя
	SetIsActive(ctx context.Context, userID string, isActive bool) error

	// JoinLeague создает запись лиги с пустым ростером (идемпотентная операция)
	JoinLeague(ctx context.Context, userID, liga string) error

	// GetLeagueTeamsForUpdate читает ростер лиги и блокирует запись до конца транзакции
	GetLeagueTeamsForUpdate(ctx context.Context, userID, liga string) ([]string, error)

	// SetLeagueTeams заменяет ростер лиги
	SetLeagueTeams(ctx context.Context, userID, liga string, equipos []string) error

	// CountByLeague считает пользователей, вступивших в лигу
	CountByLeague(ctx context.Context, liga string) (int, error)
}
