package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/jornada-service/internal/domain"
)

const userColumns = `id, name, last_name, email, password_hash, is_active, created_at`

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, last_name, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		user.ID, user.Name, user.LastName, user.Email, user.PasswordHash, user.IsActive,
	).Scan(&user.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return domain.ErrEmailTaken
		}
		return domain.WrapStore(err, "insert user")
	}

	if user.LigasRegistradas == nil {
		user.LigasRegistradas = []domain.LigaRegistrada{}
	}
	return nil
}

// GetByID получает пользователя вместе с его лигами
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, "get user by id", query, userID)
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, "get user by email", query, email)
}

// List возвращает всех пользователей
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, domain.WrapStore(err, "list users")
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, domain.WrapStore(err, "scan user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStore(err, "list users")
	}

	if err := r.attachLeagues(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetIsActive обновляет статус активности пользователя
func (r *UserRepository) SetIsActive(ctx context.Context, userID string, isActive bool) error {
	query := `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, isActive, userID)
	if err != nil {
		return domain.WrapStore(err, "set user active")
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// JoinLeague создает запись лиги с пустым ростером; повторный вызов ничего не меняет
func (r *UserRepository) JoinLeague(ctx context.Context, userID, liga string) error {
	query := `
		INSERT INTO user_leagues (user_id, liga)
		VALUES ($1, $2)
		ON CONFLICT (user_id, liga) DO NOTHING
	`

	if _, err := conn(ctx, r.db).Exec(ctx, query, userID, liga); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return domain.WrapStore(err, "join league")
	}
	return nil
}

// GetLeagueTeamsForUpdate читает ростер лиги и блокирует строку до конца транзакции
func (r *UserRepository) GetLeagueTeamsForUpdate(ctx context.Context, userID, liga string) ([]string, error) {
	query := `
		SELECT equipos
		FROM user_leagues
		WHERE user_id = $1 AND liga = $2
		FOR UPDATE
	`

	var equipos []string
	if err := conn(ctx, r.db).QueryRow(ctx, query, userID, liga).Scan(&equipos); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeagueNotRegistered
		}
		return nil, domain.WrapStore(err, "get league teams")
	}

	if equipos == nil {
		equipos = []string{}
	}
	return equipos, nil
}

// SetLeagueTeams заменяет ростер лиги
func (r *UserRepository) SetLeagueTeams(ctx context.Context, userID, liga string, equipos []string) error {
	query := `
		UPDATE user_leagues
		SET equipos = $3
		WHERE user_id = $1 AND liga = $2
	`

	if equipos == nil {
		equipos = []string{}
	}

	result, err := conn(ctx, r.db).Exec(ctx, query, userID, liga, equipos)
	if err != nil {
		return domain.WrapStore(err, "set league teams")
	}

	if result.RowsAffected() == 0 {
		return domain.ErrLeagueNotRegistered
	}
	return nil
}

// CountByLeague считает пользователей, вступивших в лигу
func (r *UserRepository) CountByLeague(ctx context.Context, liga string) (int, error) {
	query := `SELECT COUNT(*) FROM user_leagues WHERE liga = $1`

	var count int
	if err := conn(ctx, r.db).QueryRow(ctx, query, liga).Scan(&count); err != nil {
		return 0, domain.WrapStore(err, "count users by league")
	}
	return count, nil
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, args ...any) (*domain.User, error) {
	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapStore(err, op)
	}

	if err := r.attachLeagues(ctx, []*domain.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// attachLeagues загружает лиги пользователей одним запросом в порядке вступления
func (r *UserRepository) attachLeagues(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[string]*domain.User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		u.LigasRegistradas = []domain.LigaRegistrada{}
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}

	query := `
		SELECT user_id, liga, equipos
		FROM user_leagues
		WHERE user_id = ANY($1)
		ORDER BY position
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		return domain.WrapStore(err, "load user leagues")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID string
			entry  domain.LigaRegistrada
		)
		if err := rows.Scan(&userID, &entry.Liga, &entry.EquiposSeleccionados); err != nil {
			return domain.WrapStore(err, "scan user league")
		}
		if entry.EquiposSeleccionados == nil {
			entry.EquiposSeleccionados = []string{}
		}
		if u, ok := byID[userID]; ok {
			u.LigasRegistradas = append(u.LigasRegistradas, entry)
		}
	}

	return domain.WrapStore(rows.Err(), "load user leagues")
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
