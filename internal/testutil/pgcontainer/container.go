// Package pgcontainer поднимает PostgreSQL в testcontainers и применяет миграции проекта
package pgcontainer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/jornada-service/internal/dbmigrate"
)

const (
	image    = "postgres:16-alpine"
	DBName   = "jornada_test"
	User     = "test_user"
	Password = "test_password"
)

// Container это запущенный PostgreSQL с примененной схемой
type Container struct {
	container *postgres.PostgresContainer
	connStr   string
	Host      string
	Port      string
}

// Start запускает контейнер и применяет миграции из <корень проекта>/migrations
func Start(ctx context.Context) (*Container, error) {
	pg, err := postgres.Run(ctx, image,
		postgres.WithDatabase(DBName),
		postgres.WithUsername(User),
		postgres.WithPassword(Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start postgres container")
	}

	c := &Container{container: pg}
	if err := c.init(ctx); err != nil {
		_ = pg.Terminate(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *Container) init(ctx context.Context) error {
	// Контейнер без TLS
	connStr, err := c.container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return errors.Wrap(err, "connection string")
	}
	c.connStr = connStr

	host, err := c.container.Host(ctx)
	if err != nil {
		return errors.Wrap(err, "container host")
	}
	port, err := c.container.MappedPort(ctx, "5432")
	if err != nil {
		return errors.Wrap(err, "container port")
	}
	c.Host, c.Port = host, port.Port()

	dir, err := MigrationsDir()
	if err != nil {
		return err
	}
	return dbmigrate.Up(dir, connStr)
}

// ConnectionString возвращает DSN вида postgres://
func (c *Container) ConnectionString() string {
	return c.connStr
}

// Terminate останавливает контейнер
func (c *Container) Terminate() error {
	return c.container.Terminate(context.Background())
}

// MigrationsDir ищет каталог migrations, поднимаясь от рабочей директории до go.mod
func MigrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getwd")
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations"), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("project root not found (go.mod is missing)")
		}
		dir = parent
	}
}
