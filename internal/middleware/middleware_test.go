package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aidar/jornada-service/internal/handler"
	"github.com/aidar/jornada-service/internal/logging"
	"github.com/aidar/jornada-service/internal/repository/mockrepo"
	"github.com/aidar/jornada-service/internal/service"
)

func newAuthRouter(t *testing.T) (http.Handler, string, string) {
	t.Helper()

	users := &mockrepo.UserRepository{}
	authService := service.NewAuthService(users, "test-secret", time.Hour)

	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	result, err := authService.Register(t.Context(), service.RegisterInput{Email: "ana@example.com", Password: "secreto1"})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authService))
	r.With(RequireSelf("userId")).Patch("/users/{userId}/ligas/{liga}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, result.User.ID, GetUserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	return r, result.Token, result.User.ID
}

func TestAuthMiddleware(t *testing.T) {
	r, token, userID := newAuthRouter(t)

	tests := []struct {
		name    string
		header  string
		path    string
		status  int
		code    string
		message string
	}{
		{"missing header", "", "/users/" + userID + "/ligas/X", http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"},
		{"wrong scheme", "Token " + token, "/users/" + userID + "/ligas/X", http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"},
		{"invalid token", "Bearer nope", "/users/" + userID + "/ligas/X", http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token"},
		{"another user", "Bearer " + token, "/users/someone-else/ligas/X", http.StatusForbidden, "FORBIDDEN", "forbidden"},
		{"own roster", "Bearer " + token, "/users/" + userID + "/ligas/X", http.StatusNoContent, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code == "" {
				return
			}

			var resp handler.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.FromZap(zap.New(core))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Get("/teams/{teamId}", func(w http.ResponseWriter, r *http.Request) {
		// Обработчики пишут в логгер запроса
		logging.FromContext(r.Context()).Warn("team lookup", "team_id", chi.URLParam(r, "teamId"))
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teams/t1", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	handlerEntry := entries[0].ContextMap()
	requestEntry := entries[1].ContextMap()
	assert.Equal(t, "t1", handlerEntry["team_id"])
	assert.NotEmpty(t, requestEntry["request_id"])
	assert.Equal(t, handlerEntry["request_id"], requestEntry["request_id"])
	assert.Equal(t, int64(http.StatusNotFound), requestEntry["status"])
	assert.Equal(t, "/teams/t1", requestEntry["path"])
}

func TestGetUserIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, GetUserIDFromContext(t.Context()))
}
