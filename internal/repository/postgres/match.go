package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/jornada-service/internal/domain"
)

// matchSelect выбирает матч вместе с обеими командами
const matchSelect = `
	SELECT m.id, m.jornada, m.fecha, m.resultado,
	       t1.id, t1.name, t1.logo, t1.ligas, t1.selected_count,
	       t2.id, t2.name, t2.logo, t2.ligas, t2.selected_count
	FROM matches m
	JOIN teams t1 ON t1.id = m.team1_id
	JOIN teams t2 ON t2.id = m.team2_id
`

// MatchRepository реализует repository.MatchRepository для PostgreSQL
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository создает новый экземпляр MatchRepository
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// InsertMany вставляет матчи одним батчем
func (r *MatchRepository) InsertMany(ctx context.Context, matches []*domain.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO matches (id, jornada, fecha, team1_id, team2_id, resultado)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(query, m.ID, m.Jornada, m.Fecha, m.Team1ID, m.Team2ID, m.Resultado)
	}

	results := conn(ctx, r.db).SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	inserted := 0
	for range matches {
		if _, err := results.Exec(); err != nil {
			switch pgErrorCode(err) {
			case codeForeignKeyViolation:
				return 0, domain.ErrTeamNotFound
			case codeCheckViolation:
				return 0, domain.NewValidationError("matches", "jornada must be positive and teams must differ")
			case codeUniqueViolation:
				return 0, domain.NewValidationError("id", "match id already exists")
			}
			return 0, domain.WrapStore(err, "insert matches")
		}
		inserted++
	}

	return inserted, nil
}

// LockJornada берет advisory-блокировку тура до конца текущей транзакции
func (r *MatchRepository) LockJornada(ctx context.Context, jornada int) error {
	query := `SELECT pg_advisory_xact_lock(hashtext('matches.jornada'), $1::int4)`

	if _, err := conn(ctx, r.db).Exec(ctx, query, jornada); err != nil {
		return domain.WrapStore(err, "lock jornada")
	}
	return nil
}

// FindTeamInJornada возвращает любой матч тура с участием одной из команд, либо nil
func (r *MatchRepository) FindTeamInJornada(ctx context.Context, jornada int, teamIDs []string) (*domain.Match, error) {
	query := `
		SELECT id, jornada, fecha, team1_id, team2_id, resultado
		FROM matches
		WHERE jornada = $1 AND (team1_id = ANY($2) OR team2_id = ANY($2))
		ORDER BY created_at, id
		LIMIT 1
	`

	var m domain.Match
	err := conn(ctx, r.db).QueryRow(ctx, query, jornada, teamIDs).Scan(
		&m.ID,
		&m.Jornada,
		&m.Fecha,
		&m.Team1ID,
		&m.Team2ID,
		&m.Resultado,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapStore(err, "find team in jornada")
	}

	return &m, nil
}

// ListByJornada возвращает матчи тура с заполненными командами
func (r *MatchRepository) ListByJornada(ctx context.Context, jornada int) ([]*domain.Match, error) {
	query := matchSelect + ` WHERE m.jornada = $1 ORDER BY m.fecha, m.created_at, m.id`
	return r.list(ctx, "list matches by jornada", query, jornada)
}

// ListByTeam возвращает матчи, где команда одна из участниц
func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.Match, error) {
	query := matchSelect + `
		WHERE m.team1_id = $1 OR m.team2_id = $1
		ORDER BY m.jornada, m.fecha, m.id
	`
	return r.list(ctx, "list matches by team", query, teamID)
}

// ListAll возвращает все матчи с заполненными командами
func (r *MatchRepository) ListAll(ctx context.Context) ([]*domain.Match, error) {
	query := matchSelect + ` ORDER BY m.jornada, m.fecha, m.id`
	return r.list(ctx, "list matches", query)
}

func (r *MatchRepository) list(ctx context.Context, op, query string, args ...any) ([]*domain.Match, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStore(err, op)
	}
	defer rows.Close()

	matches := make([]*domain.Match, 0)
	for rows.Next() {
		var (
			m      domain.Match
			t1, t2 domain.Team
		)
		if err := rows.Scan(
			&m.ID, &m.Jornada, &m.Fecha, &m.Resultado,
			&t1.ID, &t1.Name, &t1.Logo, &t1.Ligas, &t1.SelectedCount,
			&t2.ID, &t2.Name, &t2.Logo, &t2.Ligas, &t2.SelectedCount,
		); err != nil {
			return nil, domain.WrapStore(err, op)
		}
		m.Team1ID, m.Team2ID = t1.ID, t2.ID
		m.Team1, m.Team2 = &t1, &t2
		matches = append(matches, &m)
	}

	return matches, domain.WrapStore(rows.Err(), op)
}
