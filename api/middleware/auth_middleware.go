// api/middleware/auth_middleware.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-gateway/internal/auth"
	"github.com/Annany2002/nebula-gateway/internal/domain"
	"github.com/Annany2002/nebula-gateway/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// IdentityKey is the gin context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

// TokenVerifier is the part of the token service the middleware needs.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// authenticate checks the bearer token of the current request. Failures are
// attached with c.Error and rendered by ErrorHandler: 401 when no usable
// bearer token is present, 403 when the token does not verify.
func authenticate(c *gin.Context, tokens TokenVerifier) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		_ = c.Error(fmt.Errorf("%w: authorization header required", auth.ErrUnauthorized))
		c.Abort()
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		_ = c.Error(fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrUnauthorized))
		c.Abort()
		return
	}

	identity, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		customLog.Printf("PolicyAuth: Token validation failed: %v", err)
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.Set(IdentityKey, identity)
	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
	c.Next()
}

// GetIdentity returns the identity set by the auth middleware.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}
