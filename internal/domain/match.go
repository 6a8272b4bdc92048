package domain

import "time"

// Match представляет матч тура (partido): две разные команды в одной jornada
type Match struct {
	ID        string    `json:"id"`
	Jornada   int       `json:"jornada"`
	Fecha     time.Time `json:"fecha"`
	Team1ID   string    `json:"team1Id"`
	Team2ID   string    `json:"team2Id"`
	Team1     *Team     `json:"team1,omitempty"` // Заполняется при чтении
	Team2     *Team     `json:"team2,omitempty"` // Заполняется при чтении
	Resultado string    `json:"resultado"`
}

// Involves проверяет, участвует ли команда в матче
func (m *Match) Involves(teamID string) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// InLeague возвращает true, только если обе команды несут тег лиги
func (m *Match) InLeague(liga string) bool {
	return m.Team1 != nil && m.Team2 != nil && m.Team1.InLeague(liga) && m.Team2.InLeague(liga)
}

// FixtureTeam описывает команду внутри структурированного матча (по имени, а не по ID)
type FixtureTeam struct {
	Name          string
	Logo          string
	Ligas         []string
	SelectedCount int
}

// StructuredFixture представляет матч, заданный именами команд
type StructuredFixture struct {
	Jornada         int
	Fecha           time.Time
	EquipoLocal     FixtureTeam
	EquipoVisitante FixtureTeam
	Resultado       string
}
