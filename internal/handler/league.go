package handler

import (
	"net/http"

	"github.com/aidar/jornada-service/internal/service"
)

// LeagueHandler обрабатывает эндпоинты туров и лиг
type LeagueHandler struct {
	leagueService *service.LeagueService
}

// NewLeagueHandler создает новый LeagueHandler
func NewLeagueHandler(leagueService *service.LeagueService) *LeagueHandler {
	return &LeagueHandler{
		leagueService: leagueService,
	}
}

// MatchesByJornada обрабатывает GET /teams/jornada/{jornada}
func (h *LeagueHandler) MatchesByJornada(w http.ResponseWriter, r *http.Request) {
	jornada, err := jornadaParam(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	matches, err := h.leagueService.MatchesByJornada(r.Context(), jornada)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, matches)
}

// MatchesByJornadaAndLeague обрабатывает GET /teams/jornada/{jornada}/liga/{liga}
func (h *LeagueHandler) MatchesByJornadaAndLeague(w http.ResponseWriter, r *http.Request) {
	jornada, err := jornadaParam(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	matches, err := h.leagueService.MatchesByJornadaAndLeague(r.Context(), jornada, pathParam(r, "liga"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, matches)
}

// MatchesByTeam обрабатывает GET /team/jornadas/{teamId}
func (h *LeagueHandler) MatchesByTeam(w http.ResponseWriter, r *http.Request) {
	matches, err := h.leagueService.MatchesByTeam(r.Context(), pathParam(r, "teamId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, matches)
}

// TeamsByLeague обрабатывает GET /ligas-equipos
func (h *LeagueHandler) TeamsByLeague(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagueService.TeamsByLeague(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, leagues)
}

// JornadasByLeague обрабатывает GET /teams/jornadas/liga/{liga}
func (h *LeagueHandler) JornadasByLeague(w http.ResponseWriter, r *http.Request) {
	jornadas, err := h.leagueService.JornadasByLeague(r.Context(), pathParam(r, "liga"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, jornadas)
}

// Summary обрабатывает GET /ligas/{liga}/resumen
func (h *LeagueHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.leagueService.Summary(r.Context(), pathParam(r, "liga"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, summary)
}
