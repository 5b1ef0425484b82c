// api/middleware/error_handler.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Annany2002/nebula-gateway/internal/auth"
	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/storage"
)

const internalErrorMessage = "An unexpected internal server error occurred."

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error decides the response.
		err := c.Errors.Last().Err
		statusCode, userMessage := mapError(err)

		entry := customLog.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"status":     statusCode,
			"route":      c.FullPath(),
		})
		if statusCode >= http.StatusInternalServerError {
			entry.Errorf("[ErrorHandler] %v | Type: %T", err, err)
		} else {
			entry.Infof("[ErrorHandler] %v", err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			entry.Warn("[ErrorHandler] Response already written before handling error.")
		}
	}
}

// mapError turns the error taxonomy into a status code and a client-safe message.
func mapError(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, strings.TrimPrefix(err.Error(), auth.ErrUnauthorized.Error()+": ")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusForbidden, "authentication token has expired"
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusForbidden, "invalid authentication token"

	case errors.Is(err, core.ErrReservedTable):
		return http.StatusNotFound, core.ErrReservedTable.Error()
	case errors.Is(err, storage.ErrRecordNotFound):
		return http.StatusNotFound, storage.ErrRecordNotFound.Error()

	case errors.Is(err, storage.ErrLoginExists):
		return http.StatusConflict, "login already exists"
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, storage.ErrConflict.Error()

	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit)
	case errors.As(err, &validationErrs):
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return http.StatusBadRequest, "Validation failed: " + strings.Join(fields, ", ")
	case errors.Is(err, core.ErrInvalidIdentifier),
		errors.Is(err, core.ErrEmptyPayload),
		errors.Is(err, core.ErrInvalidValue),
		errors.Is(err, core.ErrInvalidColumnType),
		errors.Is(err, core.ErrInvalidConstraint),
		errors.Is(err, core.ErrDuplicateColumn),
		errors.Is(err, core.ErrInvalidQueryOption),
		errors.Is(err, core.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, internalErrorMessage
}
