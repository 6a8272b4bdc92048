package dbmigrate

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// New создает мигратор для директории с SQL-файлами и строки подключения postgres://
func New(dir, dsn string) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve migrations dir %s", dir)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create migrator")
	}
	return m, nil
}

// Up применяет все новые миграции; отсутствие изменений не считается ошибкой
func Up(dir, dsn string) error {
	m, err := New(dir, dsn)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
