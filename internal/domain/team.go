package domain

import "strings"

// Team представляет команду (equipo) с тегами лиг и счетчиком выборов
type Team struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Logo          string   `json:"logo"`
	Ligas         []string `json:"ligas"`
	SelectedCount int      `json:"selectedCount"`
}

// InLeague проверяет, несет ли команда тег лиги
func (t *Team) InLeague(liga string) bool {
	if t == nil {
		return false
	}
	for _, tag := range t.Ligas {
		if tag == liga {
			return true
		}
	}
	return false
}

// TeamSelection представляет проекцию команды (имя и число выборов)
type TeamSelection struct {
	Name          string `json:"name"`
	SelectedCount int    `json:"selectedCount"`
}

// TeamSummary представляет команду в списке лиги
type TeamSummary struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// LeagueTeams группирует команды по тегу лиги
type LeagueTeams struct {
	Liga    string        `json:"liga"`
	Equipos []TeamSummary `json:"equipos"`
}

// LeagueSummary представляет сводку по одной лиге
type LeagueSummary struct {
	Liga     string        `json:"liga"`
	Equipos  []TeamSummary `json:"equipos"`
	Jornadas []int         `json:"jornadas"`
	Usuarios int           `json:"usuarios"`
}

// NormalizeLeagueTags убирает пробелы, пустые и повторяющиеся теги, сохраняя порядок
func NormalizeLeagueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
