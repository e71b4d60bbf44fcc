package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prolink-edu/scholarship-api/internal/models"
	"github.com/prolink-edu/scholarship-api/pkg/config"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
)

type userRepoStub struct {
	byEmail     map[string]*models.User
	byID        map[string]*models.User
	resetTokens map[string]*models.PasswordResetToken
	created     []*models.User
	lastLogin   time.Time
	newPassword string
	usedTokens  []string
}

func (s *userRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	s.created = append(s.created, user)
	return nil
}

func (s *userRepoStub) UpdateLastLogin(_ context.Context, _ string, ts time.Time) error {
	s.lastLogin = ts
	return nil
}

func (s *userRepoStub) UpdatePassword(_ context.Context, _, passwordHash string, _ time.Time) error {
	s.newPassword = passwordHash
	return nil
}

func (s *userRepoStub) CreateResetToken(_ context.Context, token *models.PasswordResetToken) error {
	if s.resetTokens == nil {
		s.resetTokens = make(map[string]*models.PasswordResetToken)
	}
	token.ID = "reset-1"
	s.resetTokens[token.Token] = token
	return nil
}

func (s *userRepoStub) FindResetToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	if reset, ok := s.resetTokens[token]; ok {
		return reset, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) MarkResetTokenUsed(_ context.Context, id string, _ time.Time) error {
	s.usedTokens = append(s.usedTokens, id)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "scholarship-api"}
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignupCreatesStudentAccount(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	info, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "Ada",
		LastName:    "Khan",
		Email:       "ada@example.com",
		Password:    "password123",
		PhoneNumber: "+920000000",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, info.Role)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "password123", repo.created[0].PasswordHash)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := &userRepoStub{byEmail: map[string]*models.User{
		"ada@example.com": {ID: "user-1", Email: "ada@example.com"},
	}}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "Ada",
		LastName:    "Khan",
		Email:       "ada@example.com",
		Password:    "password123",
		PhoneNumber: "+920000000",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleStudent,
	}
	repo := &userRepoStub{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.False(t, repo.lastLogin.IsZero())

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ada@example.com", PasswordHash: hashPassword(t, "password123")}
	repo := &userRepoStub{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc := NewAuthService(&userRepoStub{}, testJWTConfig(), validator.New(), nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestForgotPasswordIsSilentForUnknownEmail(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Empty(t, repo.resetTokens)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ada@example.com", PasswordHash: hashPassword(t, "password123")}
	repo := &userRepoStub{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: user.Email}))
	require.Len(t, repo.resetTokens, 1)

	var issued string
	for token := range repo.resetTokens {
		issued = token
	}

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: issued, NewPassword: "newpassword1"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.newPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.newPassword), []byte("newpassword1")))
	assert.Equal(t, []string{"reset-1"}, repo.usedTokens)
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	svc := NewAuthService(&userRepoStub{}, testJWTConfig(), validator.New(), nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "bogus", NewPassword: "newpassword1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ada@example.com", PasswordHash: hashPassword(t, "password123")}
	repo := &userRepoStub{byEmail: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, testJWTConfig(), validator.New(), nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "password123"})
	require.NoError(t, err)

	other := NewAuthService(repo, config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, validator.New(), nil)
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
