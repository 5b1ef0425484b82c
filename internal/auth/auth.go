// internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/logger"
)

var (
	ErrMissingSecret      = errors.New("token signing secret is not configured")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token is expired or not valid yet")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("authentication failed")
	ErrEmptyPassword      = fmt.Errorf("%w: password must not be empty", core.ErrBadRequest)
	customLog             = logger.NewLogger()
)
