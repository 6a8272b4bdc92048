package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/service"
)

// FixtureHandler обрабатывает загрузку календаря матчей
type FixtureHandler struct {
	fixtureService *service.FixtureService
}

// NewFixtureHandler создает новый FixtureHandler
func NewFixtureHandler(fixtureService *service.FixtureService) *FixtureHandler {
	return &FixtureHandler{
		fixtureService: fixtureService,
	}
}

// LeagueTags принимает теги лиг строкой или массивом строк
type LeagueTags []string

// UnmarshalJSON реализует json.Unmarshaler
func (t *LeagueTags) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*t = nil
		} else {
			*t = LeagueTags{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("ligas must be a string or a list of strings")
	}
	*t = many
	return nil
}

// RawMatchRequest представляет матч с уже известными ID команд
type RawMatchRequest struct {
	ID        string `json:"id"`
	Jornada   int    `json:"jornada" validate:"gt=0"`
	Fecha     string `json:"fecha" validate:"required"`
	Team1     string `json:"team1" validate:"required"`
	Team2     string `json:"team2" validate:"required,nefield=Team1"`
	Resultado string `json:"resultado"`
}

// FixtureTeamRequest представляет команду в структурированном матче
type FixtureTeamRequest struct {
	Name          string     `json:"name" validate:"required"`
	Logo          string     `json:"logo"`
	Ligas         LeagueTags `json:"ligas"`
	SelectedCount int        `json:"selectedCount" validate:"gte=0"`
}

// StructuredMatchRequest представляет матч, где команды заданы по имени
type StructuredMatchRequest struct {
	Jornada         int                `json:"jornada" validate:"gt=0"`
	Fecha           string             `json:"fecha" validate:"required"`
	EquipoLocal     FixtureTeamRequest `json:"equipoLocal"`
	EquipoVisitante FixtureTeamRequest `json:"equipoVisitante"`
	Resultado       string             `json:"resultado"`
}

// InsertMatchesResponse представляет ответ на загрузку матчей как есть
type InsertMatchesResponse struct {
	Success       bool `json:"success"`
	InsertedCount int  `json:"insertedCount"`
}

// InsertStructuredResponse представляет ответ на структурированную загрузку
type InsertStructuredResponse struct {
	Message       string `json:"message"`
	InsertedCount int    `json:"insertedCount"`
}

// InsertMatches обрабатывает POST /teams/matches
func (h *FixtureHandler) InsertMatches(w http.ResponseWriter, r *http.Request) {
	var req []RawMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}
	if err := validateEach(req); err != nil {
		HandleError(w, r, err)
		return
	}

	matches := make([]*domain.Match, 0, len(req))
	for i, m := range req {
		fecha, err := parseFecha(fmt.Sprintf("[%d]fecha", i), m.Fecha)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		matches = append(matches, &domain.Match{
			ID:        m.ID,
			Jornada:   m.Jornada,
			Fecha:     fecha,
			Team1ID:   m.Team1,
			Team2ID:   m.Team2,
			Resultado: m.Resultado,
		})
	}

	inserted, err := h.fixtureService.InsertMatches(r.Context(), matches)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, InsertMatchesResponse{Success: true, InsertedCount: inserted})
}

// InsertStructured обрабатывает POST /teams/matches/estructura
func (h *FixtureHandler) InsertStructured(w http.ResponseWriter, r *http.Request) {
	var req []StructuredMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}
	if err := validateEach(req); err != nil {
		HandleError(w, r, err)
		return
	}

	fixtures := make([]domain.StructuredFixture, 0, len(req))
	for i, m := range req {
		fecha, err := parseFecha(fmt.Sprintf("[%d]fecha", i), m.Fecha)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		fixtures = append(fixtures, domain.StructuredFixture{
			Jornada:         m.Jornada,
			Fecha:           fecha,
			EquipoLocal:     m.EquipoLocal.toDomain(),
			EquipoVisitante: m.EquipoVisitante.toDomain(),
			Resultado:       m.Resultado,
		})
	}

	inserted, err := h.fixtureService.InsertStructured(r.Context(), fixtures)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, InsertStructuredResponse{
		Message:       "matches inserted",
		InsertedCount: inserted,
	})
}

func (t FixtureTeamRequest) toDomain() domain.FixtureTeam {
	return domain.FixtureTeam{
		Name:          t.Name,
		Logo:          t.Logo,
		Ligas:         t.Ligas,
		SelectedCount: t.SelectedCount,
	}
}
