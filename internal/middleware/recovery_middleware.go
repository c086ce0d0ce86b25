package middleware

import (
	"fmt"
	"net/http"

	"meetings-api/internal/transport/httpdto"
	"meetings-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into a logged 500 with the standard error body.
func RecoveryMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if l != nil {
					l.Error(c.Request.Context(), "panic recovered",
						zap.String("panic", fmt.Sprint(r)),
						zap.String("path", c.Request.URL.Path),
						zap.Stack("stack"),
					)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
			}
		}()
		c.Next()
	}
}

// ErrorHandler logs errors attached with c.Error and, when no body was
// written yet, answers with the opaque 500 body.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.Error(c.Request.Context(), "request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
	}
}
