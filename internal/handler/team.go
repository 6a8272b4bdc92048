package handler

import (
	"net/http"
	"strings"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/service"
)

// TeamHandler обрабатывает эндпоинты реестра команд
type TeamHandler struct {
	teamService   *service.TeamService
	maxUploadSize int64
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService, maxUploadSize int64) *TeamHandler {
	return &TeamHandler{
		teamService:   teamService,
		maxUploadSize: maxUploadSize,
	}
}

// TeamMessageResponse представляет ответ с сообщением и командой
type TeamMessageResponse struct {
	Message string       `json:"message"`
	Team    *domain.Team `json:"team"`
}

// CreateTeamResponse представляет ответ на создание команды с логотипом
type CreateTeamResponse struct {
	Message string       `json:"message"`
	Data    *domain.Team `json:"data"`
}

// ListTeams обрабатывает GET /teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, teams)
}

// GetTeam обрабатывает GET /teams/{teamId}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), pathParam(r, "teamId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// FindByName обрабатывает GET /teams/by-name/{name}
func (h *TeamHandler) FindByName(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.FindByName(r.Context(), pathParam(r, "name"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// Increment обрабатывает POST /teams/name/{teamName}/increment
func (h *TeamHandler) Increment(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.IncrementSelected(r.Context(), pathParam(r, "teamName"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TeamMessageResponse{
		Message: "selectedCount incremented",
		Team:    team,
	})
}

// Decrement обрабатывает POST /teams/name/{teamName}/decrement
func (h *TeamHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.DecrementSelected(r.Context(), pathParam(r, "teamName"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TeamMessageResponse{
		Message: "selectedCount decremented",
		Team:    team,
	})
}

// CreateWithLogo обрабатывает POST /insertEquipoConLogo (multipart: logo, name, liga)
func (h *TeamHandler) CreateWithLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		HandleError(w, r, domain.NewValidationError("", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := service.NewTeamInput{
		Name:  r.FormValue("name"),
		Ligas: formLeagueTags(r.MultipartForm.Value["liga"]),
	}

	// Отсутствующий файл не ошибка разбора: сервис вернет "missing logo, name or liga"
	if file, header, err := r.FormFile("logo"); err == nil {
		defer file.Close()
		in.Logo = file
		in.LogoName = header.Filename
	}

	team, err := h.teamService.CreateTeamWithLogo(r.Context(), in)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, CreateTeamResponse{
		Message: "team created",
		Data:    team,
	})
}

// formLeagueTags принимает поле liga повторяющимся или одной строкой через запятую
func formLeagueTags(values []string) []string {
	var tags []string
	for _, v := range values {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}
