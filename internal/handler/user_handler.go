package handler

import (
	"net/http"

	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the profile of the authenticated caller.
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Authentication credentials were not provided.", "UNAUTHORIZED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.ToUserDTO(u))
}
