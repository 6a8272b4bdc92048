package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidar/jornada-service/internal/app"
	"github.com/aidar/jornada-service/internal/config"
	"github.com/aidar/jornada-service/internal/testutil/pgcontainer"
)

// TestEnvironment содержит все ресурсы необходимые для e2e тестов
type TestEnvironment struct {
	container *pgcontainer.Container
	App       *app.App
	Server    *httptest.Server
}

// SetupTestEnvironment поднимает PostgreSQL и приложение поверх него
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	container, err := pgcontainer.Start(ctx)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	migrations, err := pgcontainer.MigrationsDir()
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           "0",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Database: config.DatabaseConfig{
			Host:          container.Host,
			Port:          container.Port,
			User:          pgcontainer.User,
			Password:      pgcontainer.Password,
			Name:          pgcontainer.DBName,
			SSLMode:       "disable",
			MaxConns:      10,
			MinConns:      1,
			MigrationsDir: migrations, // Схема уже применена, повторный запуск ничего не меняет
		},
		JWT: config.JWTConfig{
			Secret:          "test-jwt-secret-key-for-e2e-tests",
			ExpirationHours: 1,
		},
		Uploads: config.UploadsConfig{
			Dir:           t.TempDir(),
			URLPrefix:     "/uploads",
			MaxUploadSize: 1 << 20,
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:4200"}},
		Log:     config.LogConfig{Level: "error"},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	application, err := app.New(cfg)
	require.NoError(t, err, "Failed to create application")
	require.NoError(t, application.Initialize(ctx), "Failed to initialize application")

	return &TestEnvironment{
		container: container,
		App:       application,
		Server:    httptest.NewServer(application.Handler()),
	}
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	te.Server.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = te.App.Shutdown(shutdownCtx)

	_ = te.container.Terminate()
}

// Do выполняет JSON запрос и декодирует ответ в out (если out не nil)
func (te *TestEnvironment) Do(t *testing.T, method, path string, body any, token string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, te.Server.URL+path, reader)
	require.NoError(t, err, "Failed to create request")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return te.send(t, req, out)
}

func (te *TestEnvironment) send(t *testing.T, req *http.Request, out any) int {
	t.Helper()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
