package handler

import (
	"net/http"

	"github.com/aidar/jornada-service/internal/service"
)

// StatsHandler обрабатывает эндпоинты популярности команд
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// UsersByLeagueResponse представляет число пользователей лиги
type UsersByLeagueResponse struct {
	Liga  string `json:"liga"`
	Count int    `json:"count"`
}

// TeamsSelected обрабатывает GET /teamsSelected
func (h *StatsHandler) TeamsSelected(w http.ResponseWriter, r *http.Request) {
	counts, err := h.statsService.SelectedCounts(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, counts)
}

// Recount обрабатывает POST /teams/selected/recount
func (h *StatsHandler) Recount(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.Recount(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, result)
}

// UsersByLeague обрабатывает GET /users/count/by-liga/{liga}
func (h *StatsHandler) UsersByLeague(w http.ResponseWriter, r *http.Request) {
	liga := pathParam(r, "liga")
	count, err := h.statsService.UsersByLeague(r.Context(), liga)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UsersByLeagueResponse{Liga: liga, Count: count})
}
