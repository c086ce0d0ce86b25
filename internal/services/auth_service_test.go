package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"meetings-api/config"
	"meetings-api/internal/repository"
	"meetings-api/internal/testutil"
	apperrors "meetings-api/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiryMin:  15,
		RefreshExpiry: 14,
	}
}

func newAuthService(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db.DB, db.Dialect)
	return NewAuthService(users, testConfig()), users
}

func TestAuthService_Register(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw123"})
	require.NoError(t, err)
	assert.NotZero(t, res.User.ID)
	assert.Equal(t, "alice", res.User.Username)
	assert.NotEmpty(t, res.Tokens.Access)
	assert.NotEmpty(t, res.Tokens.Refresh)

	stored, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.NoError(t, ComparePassword(stored.PasswordHash, "pw123"))

	claims, err := svc.ParseAccessToken(res.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing username", RegisterInput{Password: "pw"}, "Username and password required"},
		{"missing password", RegisterInput{Username: "bob"}, "Username and password required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Password: "other"})
	require.Error(t, err)
	assert.Equal(t, "User already exists", err.Error())
	assert.Equal(t, 400, HTTPStatus(err))
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "No active account found with the given credentials", err.Error())

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "pw123"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "password")
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.Tokens.Refresh)
	require.NoError(t, err)
	claims, err := svc.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = svc.Refresh(ctx, res.Tokens.Access)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "access token must not refresh")

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, res.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Authenticate(ctx, res.Tokens.Refresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "refresh token must not authenticate")

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_AuthenticateUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	token, err := svc.signToken(999, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc, _ := newAuthService(t)

	past := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return past }
	token, err := svc.signToken(1, TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_RejectsForeignSignature(t *testing.T) {
	svc, _ := newAuthService(t)

	claims := TokenClaims{
		UserID:    1,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestHashPassword_LongInput(t *testing.T) {
	long := strings.Repeat("x", 100)

	hash, err := HashPassword(long)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, long))
	assert.Error(t, ComparePassword(hash, long[:72]))
	assert.Error(t, ComparePassword(hash, long[:99]+"y"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrInvalidInput, 400},
		{apperrors.NewValidationError("x"), 400},
		{apperrors.ErrAlreadyExists, 400},
		{apperrors.ErrUnauthorized, 401},
		{apperrors.WithMessage(apperrors.ErrForbidden, "no"), 403},
		{apperrors.ErrNotFound, 404},
		{apperrors.ErrRateLimited, 429},
		{assert.AnError, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	svc, _ := newAuthService(t)
	res, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	ctx := WithUser(context.Background(), res.User)
	u, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, res.User.ID, u.ID)
}
