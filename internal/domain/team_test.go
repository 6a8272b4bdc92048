package domain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestMatchInLeague(t *testing.T) {
	a := &Team{ID: "a", Ligas: []string{"X", "Y"}}
	b := &Team{ID: "b", Ligas: []string{"X"}}
	m := &Match{Team1ID: "a", Team2ID: "b", Team1: a, Team2: b}

	assert.True(t, m.InLeague("X"))
	assert.False(t, m.InLeague("Y"))
	assert.False(t, (&Match{Team1: a}).InLeague("X"))
	assert.True(t, m.Involves("b"))
	assert.False(t, m.Involves("c"))
}

func TestNormalizeLeagueTags(t *testing.T) {
	assert.Equal(t, []string{"X", "Y"}, NormalizeLeagueTags([]string{" X", "", "Y", "X "}))
	assert.Empty(t, NormalizeLeagueTags(nil))
	assert.NotNil(t, NormalizeLeagueTags(nil))
}

func TestMapErrorToCode(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{NewValidationError("jornada", "must be positive"), CodeBadRequest},
		{errors.Wrap(&ConflictError{Team: "A", Jornada: 1}, "insert"), CodeConflict},
		{errors.Wrap(ErrTeamNotFound, "resolve"), CodeNotFound},
		{ErrUserNotFound, CodeNotFound},
		{ErrLeagueNotRegistered, CodeLeagueNotRegistered},
		{ErrEmailTaken, CodeEmailTaken},
		{ErrPendingApproval, CodePendingApproval},
		{ErrWrongPassword, CodeUnauthorized},
		{ErrInvalidToken, CodeUnauthorized},
		{ErrForbidden, CodeForbidden},
		{ErrUnauthorized, CodeUnauthorized},
		{WrapStore(errors.New("conn refused"), "list teams"), CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToCode(tt.err), tt.err.Error())
	}
}

func TestWrapStore(t *testing.T) {
	assert.NoError(t, WrapStore(nil, "noop"))

	err := WrapStore(errors.New("conn refused"), "list teams")
	assert.True(t, errors.Is(err, ErrStore))
	assert.Contains(t, err.Error(), "list teams")
}
