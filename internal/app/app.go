package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/aidar/jornada-service/internal/blobstore"
	"github.com/aidar/jornada-service/internal/config"
	"github.com/aidar/jornada-service/internal/dbmigrate"
	"github.com/aidar/jornada-service/internal/handler"
	"github.com/aidar/jornada-service/internal/logging"
	"github.com/aidar/jornada-service/internal/metrics"
	"github.com/aidar/jornada-service/internal/middleware"
	"github.com/aidar/jornada-service/internal/repository/postgres"
	"github.com/aidar/jornada-service/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	server *http.Server
	logger *logging.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := logging.NewJSON(logging.ParseLevel(cfg.Log.Level))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Применяем миграции, если задан каталог
	if dir := a.config.Database.MigrationsDir; dir != "" {
		if err := dbmigrate.Up(dir, a.config.Database.DSN()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		a.logger.Info("Migrations applied", "dir", dir)
	}

	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(); err != nil {
		return fmt.Errorf("failed to setup server: %w", err)
	}

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() error {
	blobs, err := blobstore.NewLocalStore(a.config.Uploads.Dir, a.config.Uploads.URLPrefix)
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()

	// Инициализируем слой репозиториев (работа с БД)
	txManager := postgres.NewTxManager(a.db)
	teamRepo := postgres.NewTeamRepository(a.db)
	matchRepo := postgres.NewMatchRepository(a.db)
	userRepo := postgres.NewUserRepository(a.db)

	// Инициализируем слой сервисов (бизнес-логика)
	teamService := service.NewTeamService(teamRepo, blobs, recorder)
	fixtureService := service.NewFixtureService(txManager, teamRepo, matchRepo, recorder)
	leagueService := service.NewLeagueService(teamRepo, matchRepo, userRepo)
	userService := service.NewUserService(txManager, userRepo, teamRepo, recorder)
	authService := service.NewAuthService(
		userRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	statsService := service.NewStatsService(teamRepo, userRepo)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	teamHandler := handler.NewTeamHandler(teamService, a.config.Uploads.MaxUploadSize)
	fixtureHandler := handler.NewFixtureHandler(fixtureService)
	leagueHandler := handler.NewLeagueHandler(leagueService)
	userHandler := handler.NewUserHandler(userService)
	statsHandler := handler.NewStatsHandler(statsService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)
	requireSelf := middleware.RequireSelf("userId")

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(a.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	if a.config.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", recorder.Handler())
	}

	// Загруженные логотипы отдаются как статика
	r.Handle(blobs.URLPrefix()+"/*",
		http.StripPrefix(blobs.URLPrefix(), http.FileServer(http.Dir(blobs.Dir()))))

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Команды и календарь
	r.Get("/teams", teamHandler.ListTeams)
	r.Get("/teams/{teamId}", teamHandler.GetTeam)
	r.Get("/teams/by-name/{name}", teamHandler.FindByName)
	r.Post("/teams/name/{teamName}/increment", teamHandler.Increment)
	r.Post("/teams/name/{teamName}/decrement", teamHandler.Decrement)
	r.Post("/insertEquipoConLogo", teamHandler.CreateWithLogo)

	r.Post("/teams/matches", fixtureHandler.InsertMatches)
	r.Post("/teams/matches/estructura", fixtureHandler.InsertStructured)

	r.Get("/teams/jornada/{jornada}", leagueHandler.MatchesByJornada)
	r.Get("/teams/jornada/{jornada}/liga/{liga}", leagueHandler.MatchesByJornadaAndLeague)
	r.Get("/team/jornadas/{teamId}", leagueHandler.MatchesByTeam)
	r.Get("/teams/jornadas/liga/{liga}", leagueHandler.JornadasByLeague)
	r.Get("/ligas-equipos", leagueHandler.TeamsByLeague)
	r.Get("/ligas/{liga}/resumen", leagueHandler.Summary)

	r.Get("/teamsSelected", statsHandler.TeamsSelected)
	r.Post("/teams/selected/recount", statsHandler.Recount)

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", userHandler.ListUsers)
		r.Get("/count/by-liga/{liga}", statsHandler.UsersByLeague)
		r.Patch("/approve/{userId}", userHandler.Approve)
		r.Get("/{userId}", userHandler.GetUser)
		r.Get("/{userId}/{liga}/equiposSeleccionados", userHandler.GetSelections)

		// Состав может менять только сам пользователь
		r.With(requireSelf).Patch("/{userId}/ligas/{liga}", userHandler.JoinLeague)
		r.With(requireSelf).Patch("/{userId}/ligas/{liga}/equipos/{equipo}", userHandler.SelectTeam)
		r.With(requireSelf).Delete("/{userId}/ligas/{liga}/equipos/{equipo}", userHandler.DeselectTeam)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
	return nil
}

// Handler возвращает корневой HTTP обработчик (доступен после Initialize)
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	_ = a.logger.Sync()
	return nil
}
