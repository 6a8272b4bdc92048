package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/jornada-service/internal/domain"
)

const teamColumns = `id, name, logo, ligas, selected_count`

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает новую команду
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (id, name, logo, ligas, selected_count)
		VALUES ($1, $2, $3, $4, $5)
	`

	ligas := team.Ligas
	if ligas == nil {
		ligas = []string{} // NULL нарушит NOT NULL
	}

	_, err := conn(ctx, r.db).Exec(ctx, query, team.ID, team.Name, team.Logo, ligas, team.SelectedCount)
	if err != nil {
		if pgErrorCode(err) == codeCheckViolation {
			return domain.NewValidationError("selectedCount", "must not be negative")
		}
		return domain.WrapStore(err, "insert team")
	}

	return nil
}

// GetByID получает команду по ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.getOne(ctx, "get team by id", query, teamID)
}

// GetByName получает команду по точному совпадению имени (самую раннюю при дублях)
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE name = $1
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.getOne(ctx, "get team by name", query, name)
}

// FindByNameFold получает команду по имени без учета регистра
func (r *TeamRepository) FindByNameFold(ctx context.Context, name string) (*domain.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE LOWER(name) = LOWER($1)
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.getOne(ctx, "find team by name", query, name)
}

// List возвращает все команды
func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name, id`
	return r.list(ctx, "list teams", query)
}

// ListByLeague возвращает команды, несущие тег лиги
func (r *TeamRepository) ListByLeague(ctx context.Context, liga string) ([]*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE $1 = ANY(ligas) ORDER BY name, id`
	return r.list(ctx, "list teams by league", query, liga)
}

// ListSelectedCounts возвращает проекцию (имя, число выборов)
func (r *TeamRepository) ListSelectedCounts(ctx context.Context) ([]domain.TeamSelection, error) {
	query := `SELECT name, selected_count FROM teams ORDER BY name, id`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, domain.WrapStore(err, "list selected counts")
	}
	defer rows.Close()

	selections := make([]domain.TeamSelection, 0)
	for rows.Next() {
		var s domain.TeamSelection
		if err := rows.Scan(&s.Name, &s.SelectedCount); err != nil {
			return nil, domain.WrapStore(err, "scan selected count")
		}
		selections = append(selections, s)
	}

	return selections, domain.WrapStore(rows.Err(), "list selected counts")
}

// AdjustSelectedCount атомарно меняет счетчик выборов; значение не опускается ниже нуля.
// Одна UPDATE-операция сериализуется блокировкой строки, поэтому параллельные вызовы не теряют обновления.
func (r *TeamRepository) AdjustSelectedCount(ctx context.Context, teamID string, delta int) (*domain.Team, error) {
	query := `
		UPDATE teams
		SET selected_count = GREATEST(selected_count + $2, 0), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + teamColumns

	return r.getOne(ctx, "adjust selected count", query, teamID, delta)
}

// LockName берет advisory-блокировку имени команды до конца текущей транзакции.
// Поиск и создание команды по имени под этой блокировкой не порождают дублей.
func (r *TeamRepository) LockName(ctx context.Context, name string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext('teams.name'), hashtext($1))`

	if _, err := conn(ctx, r.db).Exec(ctx, query, name); err != nil {
		return domain.WrapStore(err, "lock team name")
	}
	return nil
}

// RecountSelected пересчитывает selected_count по ростерам и возвращает число исправленных команд.
// Выборы засчитываются только самой ранней команде с данным именем, как при разрешении имени;
// остальные одноименные команды обнуляются.
func (r *TeamRepository) RecountSelected(ctx context.Context) (int64, error) {
	query := `
		WITH counts AS (
			SELECT e.team_name, COUNT(*) AS cnt
			FROM user_leagues ul, UNNEST(ul.equipos) AS e(team_name)
			GROUP BY e.team_name
		), canonical AS (
			SELECT DISTINCT ON (name) id, name
			FROM teams
			ORDER BY name, created_at, id
		), target AS (
			SELECT t.id, COALESCE(c.cnt, 0) AS cnt
			FROM teams t
			LEFT JOIN canonical k ON k.id = t.id
			LEFT JOIN counts c ON c.team_name = k.name
		)
		UPDATE teams t
		SET selected_count = target.cnt, updated_at = NOW()
		FROM target
		WHERE t.id = target.id AND t.selected_count <> target.cnt
	`

	result, err := conn(ctx, r.db).Exec(ctx, query)
	if err != nil {
		return 0, domain.WrapStore(err, "recount selected")
	}

	return result.RowsAffected(), nil
}

func (r *TeamRepository) getOne(ctx context.Context, op, query string, args ...any) (*domain.Team, error) {
	team, err := scanTeam(conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, domain.WrapStore(err, op)
	}
	return team, nil
}

func (r *TeamRepository) list(ctx context.Context, op, query string, args ...any) ([]*domain.Team, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStore(err, op)
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, domain.WrapStore(err, op)
		}
		teams = append(teams, team)
	}

	return teams, domain.WrapStore(rows.Err(), op)
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(&team.ID, &team.Name, &team.Logo, &team.Ligas, &team.SelectedCount); err != nil {
		return nil, err
	}
	if team.Ligas == nil {
		team.Ligas = []string{}
	}
	return &team, nil
}
