// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"
	"meetings-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
	log     *logger.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, registerBindError(err))
		return
	}

	res, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.log.Info(c.Request.Context(), "user registered", zap.Int64("user_id", res.User.ID))
	c.JSON(http.StatusCreated, httpdto.RegisterResponse{
		User:    httpdto.ToUserDTO(res.User),
		Token:   res.Tokens.Access,
		Refresh: res.Tokens.Refresh,
	})
}

// Login issues an access/refresh pair for valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	pair, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh handles token refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req httpdto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.RefreshResponse{Access: access})
}

// registerBindError reports a non-string username or password the same way
// as a missing one.
func registerBindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && (typeErr.Field == "username" || typeErr.Field == "password") {
		return services.CredentialsRequiredError()
	}
	return bindError(err)
}
