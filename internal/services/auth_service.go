package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"meetings-api/config"
	"meetings-api/internal/domain/user"
	"meetings-api/internal/repository"
	apperrors "meetings-api/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	msgCredentialsRequired = "Username and password required"
	msgUserExists          = "User already exists"
	msgNoActiveAccount     = "No active account found with the given credentials"
	msgTokenInvalid        = "Token is invalid or expired"
)

// CredentialsRequiredError is the registration error for a missing or
// unusable username or password.
func CredentialsRequiredError() error {
	return apperrors.Invalid(msgCredentialsRequired)
}

type AuthService struct {
	userRepo   repository.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
		now:        time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// TokenPair is a freshly signed access/refresh pair.
type TokenPair struct {
	Access  string
	Refresh string
}

type RegisterResult struct {
	User   user.User
	Tokens TokenPair
}

// TokenClaims is the JWT payload for both token types.
type TokenClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Register creates a user and issues its first token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	if in.Username == "" || in.Password == "" {
		return RegisterResult{}, CredentialsRequiredError()
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return RegisterResult{}, err
	}
	if exists {
		return RegisterResult{}, apperrors.Invalid(msgUserExists)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	newUser := user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DateJoined:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return RegisterResult{}, apperrors.Invalid(msgUserExists)
		}
		return RegisterResult{}, err
	}

	tokens, err := s.newTokenPair(newUser.ID)
	if err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{User: newUser, Tokens: tokens}, nil
}

// Login checks credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	verr := apperrors.NewValidationError("invalid credentials payload")
	if in.Username == "" {
		verr.Add("username", msgRequired)
	}
	if in.Password == "" {
		verr.Add("password", msgRequired)
	}
	if verr.HasErrors() {
		return TokenPair{}, verr
	}

	u, err := s.userRepo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return TokenPair{}, apperrors.WithMessage(apperrors.ErrUnauthorized, msgNoActiveAccount)
		}
		return TokenPair{}, err
	}
	if err := ComparePassword(u.PasswordHash, in.Password); err != nil {
		return TokenPair{}, apperrors.WithMessage(apperrors.ErrUnauthorized, msgNoActiveAccount)
	}

	return s.newTokenPair(u.ID)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		verr := apperrors.NewValidationError("invalid refresh payload")
		verr.Add("refresh", msgRequired)
		return "", verr
	}

	claims, err := s.parseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if _, err := s.userRepo.GetUserByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.WithMessage(apperrors.ErrUnauthorized, msgTokenInvalid)
		}
		return "", err
	}

	return s.signToken(claims.UserID, TokenTypeAccess, s.accessTTL)
}

// ParseAccessToken verifies signature, expiry and token type of an access token.
func (s *AuthService) ParseAccessToken(tokenString string) (TokenClaims, error) {
	return s.parseToken(tokenString, TokenTypeAccess)
}

// Authenticate resolves a bearer access token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (user.User, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return user.User{}, err
	}
	u, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return user.User{}, apperrors.WithMessage(apperrors.ErrUnauthorized, "User not found")
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *AuthService) parseToken(tokenString, tokenType string) (TokenClaims, error) {
	invalid := apperrors.WithMessage(apperrors.ErrUnauthorized, msgTokenInvalid)
	if tokenString == "" {
		return TokenClaims{}, invalid
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return TokenClaims{}, invalid
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid || claims.TokenType != tokenType || claims.UserID == 0 {
		return TokenClaims{}, invalid
	}
	return *claims, nil
}

func (s *AuthService) newTokenPair(userID int64) (TokenPair, error) {
	access, err := s.signToken(userID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.signToken(userID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// HashPassword bcrypts a SHA-256 digest of password so inputs past bcrypt's
// 72-byte limit are accepted and still fully significant.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HTTPStatus maps service errors onto response status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type ctxKey string

var userKey ctxKey = "user"

// WithUser stores the authenticated caller on the context.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok
}
