package handler

import (
	"net/http"

	"github.com/aidar/jornada-service/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей и их составов
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers обрабатывает GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, users)
}

// GetUser обрабатывает GET /users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), pathParam(r, "userId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// Approve обрабатывает PATCH /users/approve/{userId}
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Approve(r.Context(), pathParam(r, "userId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// JoinLeague обрабатывает PATCH /users/{userId}/ligas/{liga}
func (h *UserHandler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.JoinLeague(r.Context(), pathParam(r, "userId"), pathParam(r, "liga"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// SelectTeam обрабатывает PATCH /users/{userId}/ligas/{liga}/equipos/{equipo}
func (h *UserHandler) SelectTeam(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.SelectTeam(r.Context(),
		pathParam(r, "userId"), pathParam(r, "liga"), pathParam(r, "equipo"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// DeselectTeam обрабатывает DELETE /users/{userId}/ligas/{liga}/equipos/{equipo}
func (h *UserHandler) DeselectTeam(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.DeselectTeam(r.Context(),
		pathParam(r, "userId"), pathParam(r, "liga"), pathParam(r, "equipo"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// GetSelections обрабатывает GET /users/{userId}/{liga}/equiposSeleccionados
func (h *UserHandler) GetSelections(w http.ResponseWriter, r *http.Request) {
	equipos, err := h.userService.GetSelections(r.Context(), pathParam(r, "userId"), pathParam(r, "liga"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, equipos)
}
