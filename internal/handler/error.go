package handler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/logging"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"` // Только для 5xx, чтобы найти запрос в логах
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	switch code {
	case domain.CodeBadRequest:
		var validationErr *domain.ValidationError
		errors.As(err, &validationErr)
		RespondWithError(w, r, http.StatusBadRequest, string(code), validationErr.Error())
	case domain.CodeConflict:
		var conflictErr *domain.ConflictError
		errors.As(err, &conflictErr)
		RespondWithError(w, r, http.StatusConflict, string(code), conflictErr.Error())
	case domain.CodeLeagueNotRegistered:
		RespondWithError(w, r, http.StatusBadRequest, string(code), "league not registered")
	case domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), notFoundMessage(err))
	case domain.CodeEmailTaken:
		RespondWithError(w, r, http.StatusConflict, string(code), "email already registered")
	case domain.CodePendingApproval:
		RespondWithError(w, r, http.StatusForbidden, string(code), "user pending approval")
	case domain.CodeUnauthorized:
		RespondWithError(w, r, http.StatusUnauthorized, string(code), unauthorizedMessage(err))
	case domain.CodeForbidden:
		RespondWithError(w, r, http.StatusForbidden, string(code), "forbidden")
	default:
		// Детали сбоя только в логах, клиент получает request_id для корреляции
		requestID := chimiddleware.GetReqID(r.Context())
		logging.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"store_failure", errors.Is(err, domain.ErrStore),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Error: ErrorDetail{
				Code:      string(domain.CodeInternal),
				Message:   "internal server error",
				RequestID: requestID,
			},
		})
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound):
		return "team not found"
	default:
		return "user not found"
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong password"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid or expired token"
	default:
		return "unauthorized"
	}
}
