package domain

import (
	"strings"
	"time"
)

// User представляет зарегистрированного игрока
type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"` // Никогда не сериализуется
	IsActive         bool             `json:"isActive"`
	LigasRegistradas []LigaRegistrada `json:"ligasRegistradas"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// LigaRegistrada представляет лигу, в которую вступил пользователь, и выбранные в ней команды
type LigaRegistrada struct {
	Liga                 string   `json:"liga"`
	EquiposSeleccionados []string `json:"equiposSeleccionados"`
}

// UserInfo представляет публичные данные пользователя в ответах авторизации
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
}

// Info возвращает публичное представление пользователя
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Name:     u.Name,
		LastName: u.LastName,
		Email:    u.Email,
	}
}

// League возвращает запись лиги пользователя или nil, если лига не зарегистрирована
func (u *User) League(liga string) *LigaRegistrada {
	for i := range u.LigasRegistradas {
		if u.LigasRegistradas[i].Liga == liga {
			return &u.LigasRegistradas[i]
		}
	}
	return nil
}

// SelectedTeam ищет команду в ростере без учета регистра и возвращает сохраненное имя
func SelectedTeam(equipos []string, name string) (string, bool) {
	for _, equipo := range equipos {
		if equipo == name {
			return equipo, true
		}
	}
	for _, equipo := range equipos {
		if strings.EqualFold(equipo, name) {
			return equipo, true
		}
	}
	return "", false
}

// AddTeam добавляет команду в ростер; повторное добавление ничего не меняет
func AddTeam(equipos []string, name string) ([]string, bool) {
	if _, ok := SelectedTeam(equipos, name); ok {
		return equipos, false
	}
	out := make([]string, 0, len(equipos)+1)
	out = append(out, equipos...)
	return append(out, name), true
}

// RemoveTeam удаляет команду из ростера; отсутствующая команда ничего не меняет
func RemoveTeam(equipos []string, name string) ([]string, bool) {
	stored, ok := SelectedTeam(equipos, name)
	if !ok {
		return equipos, false
	}
	out := make([]string, 0, len(equipos))
	for _, equipo := range equipos {
		if equipo != stored {
			out = append(out, equipo)
		}
	}
	return out, true
}
