package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"meetings-api/internal/domain/user"
	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"
	apperrors "meetings-api/pkg/errors"
	"meetings-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.User, error)
}

// AuthMiddleware rejects requests without a valid access token and stores
// the caller on the request context.
func AuthMiddleware(auth Authenticator, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}

		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthorized) {
				if l != nil {
					l.Errorf("authenticate request: %v", err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
				return
			}
			abortUnauthorized(c, err.Error())
			return
		}

		ctx := services.WithUser(c.Request.Context(), u)
		ctx = logger.WithUserID(ctx, strconv.FormatInt(u.ID, 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse(message, "UNAUTHORIZED"))
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
