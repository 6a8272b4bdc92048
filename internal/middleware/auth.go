package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/handler"
	"github.com/aidar/jornada-service/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// UserIDKey ключ контекста для ID пользователя
const UserIDKey ContextKey = "user_id"

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handler.HandleError(w, r, domain.ErrUnauthorized)
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handler.HandleError(w, r, domain.ErrUnauthorized)
				return
			}

			// Валидируем токен
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				handler.HandleError(w, r, err)
				return
			}

			// Добавляем ID пользователя в контекст
			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSelf пропускает запрос, только если параметр пути совпадает с пользователем из токена
func RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, param) != GetUserIDFromContext(r.Context()) {
				handler.HandleError(w, r, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext извлекает ID пользователя из контекста
func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
