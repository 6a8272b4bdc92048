package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Доменные ошибки
var (
	// ErrTeamNotFound возвращается когда команда не найдена ни по ID, ни по имени
	ErrTeamNotFound = errors.New("team not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrLeagueNotRegistered возвращается при работе с лигой, в которую пользователь не вступил
	ErrLeagueNotRegistered = errors.New("league not registered")

	// ErrEmailTaken возвращается при регистрации на уже занятый email
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials возвращается при логине с неизвестным email
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPendingApproval возвращается при логине неактивированного пользователя
	ErrPendingApproval = errors.New("user pending approval")

	// ErrWrongPassword возвращается при неверном пароле
	ErrWrongPassword = errors.New("wrong password")

	// ErrUnauthorized возвращается при отсутствии или неверном формате заголовка Authorization
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden возвращается когда токен принадлежит другому пользователю
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrStore помечает сбои хранилища; детали остаются только в логах
	ErrStore = errors.New("store failure")
)

// ValidationError возвращается для некорректных или отсутствующих полей до обращения к хранилищу
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError создает ошибку валидации для поля
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError возвращается когда команда уже играет в этом туре
type ConflictError struct {
	Team    string
	Jornada int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("team %q already scheduled in jornada %d", e.Team, e.Jornada)
}

// WrapStore оборачивает ошибку драйвера БД и помечает ее как ErrStore
func WrapStore(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, op), ErrStore)
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeBadRequest          ErrorCode = "BAD_REQUEST"           // Некорректный запрос
	CodeNotFound            ErrorCode = "NOT_FOUND"             // Ресурс не найден
	CodeConflict            ErrorCode = "CONFLICT"              // Команда уже играет в туре
	CodeLeagueNotRegistered ErrorCode = "LEAGUE_NOT_REGISTERED" // Лига не зарегистрирована пользователем
	CodeEmailTaken          ErrorCode = "EMAIL_TAKEN"           // Email уже занят
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"          // Ошибка аутентификации
	CodePendingApproval     ErrorCode = "PENDING_APPROVAL"      // Пользователь еще не одобрен
	CodeForbidden           ErrorCode = "FORBIDDEN"             // Доступ запрещен
	CodeInternal            ErrorCode = "INTERNAL_ERROR"        // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	var validationErr *ValidationError
	var conflictErr *ConflictError

	switch {
	case errors.As(err, &validationErr):
		return CodeBadRequest
	case errors.As(err, &conflictErr):
		return CodeConflict
	case errors.Is(err, ErrLeagueNotRegistered):
		return CodeLeagueNotRegistered
	case errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrUserNotFound):
		return CodeNotFound
	case errors.Is(err, ErrEmailTaken):
		return CodeEmailTaken
	case errors.Is(err, ErrPendingApproval):
		return CodePendingApproval
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}
