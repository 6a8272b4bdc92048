package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/kelseyhightower/envconfig"

	"github.com/aidar/jornada-service/internal/config"
	"github.com/aidar/jornada-service/internal/dbmigrate"
	"github.com/aidar/jornada-service/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	defer func() { _ = logger.Sync() }()

	// Читаем только настройки БД: JWT и прочее мигратору не нужны
	var db config.DatabaseConfig
	if err := envconfig.Process("", &db); err != nil {
		fatal(logger, "load database config", err)
	}

	dir := db.MigrationsDir
	if dir == "" {
		dir = "./migrations"
	}

	m, err := dbmigrate.New(dir, db.DSN())
	if err != nil {
		fatal(logger, "create migrator", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	switch cmd := strings.ToLower(strings.TrimSpace(os.Args[1])); cmd {
	case "up":
		checkMigration(logger, m.Up())
		logger.Info("migrations applied", "dir", dir)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(strings.TrimSpace(os.Args[2]))
			if err != nil || steps <= 0 {
				fatal(logger, "parse steps", errors.Newf("invalid down steps %q", os.Args[2]))
			}
		}
		checkMigration(logger, m.Steps(-steps))
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return
		}
		if err != nil {
			fatal(logger, "read version", err)
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	case "force":
		if len(os.Args) < 3 {
			fatal(logger, "force", errors.New("force requires a version argument"))
		}
		version, err := strconv.Atoi(strings.TrimSpace(os.Args[2]))
		if err != nil || version < 0 {
			fatal(logger, "parse version", errors.Newf("invalid version %q", os.Args[2]))
		}
		if err := m.Force(version); err != nil {
			fatal(logger, "force version", err)
		}
		logger.Info("forced version", "version", version)
	default:
		printUsage()
		os.Exit(2)
	}
}

func checkMigration(logger *logging.Logger, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return
	}
	fatal(logger, "migrate", err)
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	_ = logger.Sync()
	os.Exit(1)
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force> [args]\n", name)
	fmt.Fprintf(os.Stderr, "  %s up\n  %s down 1\n  %s version\n  %s force 1\n", name, name, name, name)
}
