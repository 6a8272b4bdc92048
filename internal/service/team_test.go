package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/repository/mockrepo"
)

// memoryBlobs хранит логотипы в памяти
type memoryBlobs struct {
	saved   map[string]string
	deleted []string
}

func (b *memoryBlobs) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if b.saved == nil {
		b.saved = make(map[string]string)
	}
	ref := "/uploads/" + originalName
	b.saved[ref] = string(data)
	return ref, nil
}

func (b *memoryBlobs) Delete(_ context.Context, ref string) error {
	b.deleted = append(b.deleted, ref)
	return nil
}

func TestCreateTeamWithLogo(t *testing.T) {
	teams := &mockrepo.TeamRepository{}
	blobs := &memoryBlobs{}
	svc := NewTeamService(teams, blobs, nil)

	teams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Team")).Return(nil)

	team, err := svc.CreateTeamWithLogo(context.Background(), NewTeamInput{
		Name:     " Atlas ",
		Ligas:    []string{"Liga MX", "", "Liga MX"},
		LogoName: "atlas.png",
		Logo:     strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Atlas", team.Name)
	assert.Equal(t, []string{"Liga MX"}, team.Ligas)
	assert.Equal(t, "/uploads/atlas.png", team.Logo)
	assert.Equal(t, "png-bytes", blobs.saved[team.Logo])
	assert.NotEmpty(t, team.ID)
}

func TestCreateTeamWithLogo_MissingInput(t *testing.T) {
	cases := map[string]NewTeamInput{
		"no logo":  {Name: "Atlas", Ligas: []string{"X"}},
		"no name":  {Ligas: []string{"X"}, Logo: strings.NewReader("x")},
		"no ligas": {Name: "Atlas", Ligas: []string{" "}, Logo: strings.NewReader("x")},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			teams := &mockrepo.TeamRepository{}
			blobs := &memoryBlobs{}
			svc := NewTeamService(teams, blobs, nil)

			_, err := svc.CreateTeamWithLogo(context.Background(), in)

			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, "missing logo, name or liga", validation.Error())
			assert.Empty(t, blobs.saved)
			teams.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateTeamWithLogo_RemovesBlobOnFailure(t *testing.T) {
	teams := &mockrepo.TeamRepository{}
	blobs := &memoryBlobs{}
	svc := NewTeamService(teams, blobs, nil)

	teams.On("Create", mock.Anything, mock.Anything).
		Return(domain.WrapStore(errors.New("disk full"), "create team"))

	_, err := svc.CreateTeamWithLogo(context.Background(), NewTeamInput{
		Name:     "Atlas",
		Ligas:    []string{"X"},
		LogoName: "atlas.png",
		Logo:     strings.NewReader("png"),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"/uploads/atlas.png"}, blobs.deleted)
}

func TestIncrementThenDecrement_ResolvesName(t *testing.T) {
	teams := &mockrepo.TeamRepository{}
	svc := NewTeamService(teams, &memoryBlobs{}, nil)

	atlas := &domain.Team{ID: "a-id", Name: "Atlas", SelectedCount: 3}
	teams.On("GetByName", mock.Anything, "atlas").Return(nil, domain.ErrTeamNotFound)
	teams.On("FindByNameFold", mock.Anything, "atlas").Return(atlas, nil)
	teams.On("AdjustSelectedCount", mock.Anything, "a-id", 1).Return(&domain.Team{ID: "a-id", SelectedCount: 4}, nil)
	teams.On("AdjustSelectedCount", mock.Anything, "a-id", -1).Return(&domain.Team{ID: "a-id", SelectedCount: 3}, nil)

	up, err := svc.IncrementSelected(context.Background(), "atlas")
	require.NoError(t, err)
	assert.Equal(t, 4, up.SelectedCount)

	down, err := svc.DecrementSelected(context.Background(), "atlas")
	require.NoError(t, err)
	assert.Equal(t, atlas.SelectedCount, down.SelectedCount)
}

func TestIncrement_UnknownTeam(t *testing.T) {
	teams := &mockrepo.TeamRepository{}
	svc := NewTeamService(teams, &memoryBlobs{}, nil)

	teams.On("GetByName", mock.Anything, "Ghost").Return(nil, domain.ErrTeamNotFound)
	teams.On("FindByNameFold", mock.Anything, "Ghost").Return(nil, domain.ErrTeamNotFound)

	_, err := svc.IncrementSelected(context.Background(), "Ghost")
	assert.True(t, errors.Is(err, domain.ErrTeamNotFound))
	teams.AssertNotCalled(t, "AdjustSelectedCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecount(t *testing.T) {
	teams := &mockrepo.TeamRepository{}
	svc := NewStatsService(teams, &mockrepo.UserRepository{})
	teams.On("RecountSelected", mock.Anything).Return(int64(2), nil)

	result, err := svc.Recount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Corrected)
}
