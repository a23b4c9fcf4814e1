package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]models.User
	created *models.User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "new-user"
	}
	if m.byEmail == nil {
		m.byEmail = make(map[string]models.User)
	}
	m.byEmail[user.Email] = *user
	m.created = user
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepo{byEmail: map[string]models.User{
		"admin@example.edu": {
			ID:           "u1",
			Email:        "admin@example.edu",
			PasswordHash: string(hash),
			FullName:     "Site Admin",
			Role:         models.RoleAdmin,
			Active:       true,
		},
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "course-scheduler"})
	return svc, repo
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.edu", Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.edu", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)
	user := repo.byEmail["admin@example.edu"]
	user.Active = false
	repo.byEmail["admin@example.edu"] = user

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.edu", Password: "secret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegister(t *testing.T) {
	svc, repo := newAuthFixture(t)

	user, err := svc.Register(context.Background(), dto.RegisterUserRequest{
		Email:    "staff@example.edu",
		Password: "another-pass",
		FullName: "Staff Member",
		Role:     "STAFF",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.True(t, user.Active)
	require.NotNil(t, repo.created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("another-pass")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), dto.RegisterUserRequest{
		Email:    "admin@example.edu",
		Password: "another-pass",
		FullName: "Dup",
		Role:     "ADMIN",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
