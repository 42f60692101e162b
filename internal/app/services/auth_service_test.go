package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories/inmem"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

func newAuthService(t *testing.T) (AuthService, *auth.JWTService) {
	t.Helper()
	repos := inmem.NewRepositories(inmem.NewStore())
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "schoolvax-test"})
	return NewAuthService(repos.Coordinators, jwtSvc, nil, zerolog.Nop()), jwtSvc
}

func TestSignupLoginVerify(t *testing.T) {
	svc, jwtSvc := newAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &dto.SignupRequest{
		Name: "Jane", Email: " Jane@School.edu ", Password: "s3cret!", School: "Springfield High",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@school.edu", signup.Coordinator.Email)
	assert.Equal(t, "Bearer", signup.TokenType)
	assert.EqualValues(t, auth.TokenTTL.Seconds(), signup.ExpiresIn)

	claims, err := jwtSvc.ValidateToken(signup.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.Coordinator.ID, claims.CoordinatorID)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "JANE@school.edu", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, signup.Coordinator.ID, login.Coordinator.ID)

	verified, err := svc.Verify(ctx, claims.CoordinatorID)
	require.NoError(t, err)
	assert.Equal(t, "Springfield High", verified.Coordinator.School)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	req := &dto.SignupRequest{Name: "Jane", Email: "jane@school.edu", Password: "pw", School: "S"}

	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	req.Email = "JANE@school.edu"
	_, err = svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLogin_DoesNotRevealWhichCredentialFailed(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Signup(context.Background(), &dto.SignupRequest{Name: "Jane", Email: "jane@school.edu", Password: "pw", School: "S"})
	require.NoError(t, err)

	_, unknown := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@school.edu", Password: "pw"})
	_, wrong := svc.Login(context.Background(), &dto.LoginRequest{Email: "jane@school.edu", Password: "nope"})

	assert.ErrorIs(t, unknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrong, apperrors.ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestVerify_DeletedCoordinator(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Verify(context.Background(), "gone")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
