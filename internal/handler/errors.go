package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"
	apperrors "meetings-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError renders err with its mapped status. Unexpected errors are
// attached to the context and left to middleware.ErrorHandler, which logs
// them and writes the opaque 500 body.
func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, httpdto.NewValidationErrorResponse(verr.Message, verr.Fields))
		return
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Status(status)
		c.Abort()
		return
	}

	message := defaultMessage(status)
	var msgErr *apperrors.MessageError
	if errors.As(err, &msgErr) {
		message = msgErr.Message
	}
	c.JSON(status, httpdto.NewErrorResponse(message, errorCode(status)))
}

// bindError turns a JSON decoding failure into a client error. A value of
// the wrong type is reported against its field.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := apperrors.NewValidationError("invalid request")
		verr.Add(typeErr.Field, typeMessage(typeErr.Type))
		return verr
	}
	return apperrors.Invalid("invalid request")
}

func typeMessage(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.String {
		return "Not a valid string."
	}
	return "Invalid value."
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized:
		return "Authentication credentials were not provided."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "Not found."
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	default:
		return http.StatusText(status)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}
