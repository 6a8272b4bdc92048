package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aidar/jornada-service/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В сообщениях используем имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON читает тело запроса в dst
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("", "invalid request body")
	}
	return nil
}

// validateStruct проверяет теги validate у структуры запроса
func validateStruct(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return validationError("", err)
	}
	return nil
}

// validateEach проверяет каждый элемент пакетного запроса; ошибка указывает индекс
func validateEach[T any](items []T) error {
	if len(items) == 0 {
		return domain.NewValidationError("", "at least one item is required")
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return validationError(fmt.Sprintf("[%d]", i), err)
		}
	}
	return nil
}

func validationError(prefix string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:] // Убираем имя типа запроса
		}
		return domain.NewValidationError(prefix+field, fmt.Sprintf("failed on '%s'", fe.Tag()))
	}
	return domain.NewValidationError(prefix, err.Error())
}

// pathParam возвращает декодированный параметр пути без пробелов по краям.
// chi маршрутизирует по RawPath, только когда он задан; иначе параметр уже декодирован.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}
	return strings.TrimSpace(raw)
}

// jornadaParam читает номер тура из пути
func jornadaParam(r *http.Request) (int, error) {
	jornada, err := strconv.Atoi(pathParam(r, "jornada"))
	if err != nil || jornada <= 0 {
		return 0, domain.NewValidationError("jornada", "must be a positive integer")
	}
	return jornada, nil
}

var fechaLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseFecha принимает дату в RFC 3339, без зоны или только дату
func parseFecha(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError(field, "invalid date")
}
