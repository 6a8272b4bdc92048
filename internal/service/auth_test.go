package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aidar/jornada-service/internal/domain"
	"github.com/aidar/jornada-service/internal/repository/mockrepo"
)

const testSecret = "test-secret"

func storedUser(t *testing.T, password string, active bool) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           "u1",
		Name:         "Ana",
		LastName:     "Lopez",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		IsActive:     active,
	}
}

func TestRegister_CreatesInactiveUserWithHash(t *testing.T) {
	users := &mockrepo.UserRepository{}
	svc := NewAuthService(users, testSecret, time.Hour)

	var created *domain.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
		}).
		Return(nil)

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		LastName: "Lopez",
		Email:    "  Ana@Example.com ",
		Password: "secreto1",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.False(t, created.IsActive)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.NotEqual(t, "secreto1", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secreto1")))

	assert.Equal(t, created.ID, result.User.ID)
	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.Subject)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := &mockrepo.UserRepository{}
	svc := NewAuthService(users, testSecret, time.Hour)
	users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "secreto1"})
	assert.True(t, errors.Is(err, domain.ErrEmailTaken))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		repoErr error
		pass    string
		wantErr error
	}{
		{name: "unknown email", repoErr: domain.ErrUserNotFound, pass: "x", wantErr: domain.ErrInvalidCredentials},
		{name: "pending approval", user: storedUser(t, "secreto1", false), pass: "secreto1", wantErr: domain.ErrPendingApproval},
		{name: "wrong password", user: storedUser(t, "secreto1", true), pass: "otro", wantErr: domain.ErrWrongPassword},
		{name: "success", user: storedUser(t, "secreto1", true), pass: "secreto1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockrepo.UserRepository{}
			svc := NewAuthService(users, testSecret, time.Hour)
			users.On("GetByEmail", mock.Anything, "ana@example.com").Return(tt.user, tt.repoErr)

			result, err := svc.Login(context.Background(), "Ana@example.com", tt.pass)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u1", result.User.ID)
			assert.NotEmpty(t, result.Token)
		})
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewAuthService(&mockrepo.UserRepository{}, testSecret, time.Hour)
	other := NewAuthService(&mockrepo.UserRepository{}, "another-secret", time.Hour)
	expired := NewAuthService(&mockrepo.UserRepository{}, testSecret, -time.Minute)

	foreign, err := other.issue(&domain.User{ID: "u1"})
	require.NoError(t, err)
	stale, err := expired.issue(&domain.User{ID: "u1"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  foreign.Token,
		"expired token": stale.Token,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.True(t, errors.Is(err, domain.ErrInvalidToken))
		})
	}
}
