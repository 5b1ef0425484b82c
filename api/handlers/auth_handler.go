// api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-gateway/api/middleware"
	"github.com/Annany2002/nebula-gateway/api/models"
	"github.com/Annany2002/nebula-gateway/internal/auth"
	"github.com/Annany2002/nebula-gateway/internal/core"
	"github.com/Annany2002/nebula-gateway/internal/domain"
	"github.com/Annany2002/nebula-gateway/internal/storage"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	Users  UserStore
	Hasher *auth.PasswordHasher
	Tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(users UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Register binding error: %v", err)
		_ = c.Error(fmt.Errorf("%w: %w", core.ErrBadRequest, err))
		return
	}
	login := strings.TrimSpace(req.Login)
	if login == "" {
		_ = c.Error(fmt.Errorf("%w: login must not be blank", core.ErrBadRequest))
		return
	}

	hashedPassword, err := h.Hasher.HashPassword(req.Password)
	if err != nil {
		customLog.Warnf("Failed to hash password during registration for login %s: %v", login, err)
		_ = c.Error(err)
		return
	}

	userID, err := h.Users.CreateUser(c.Request.Context(), login, hashedPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.Tokens.Issue(domain.Identity{ID: userID, Login: login})
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Successfully registered user %d", userID)
	c.JSON(http.StatusCreated, models.RegisterResponse{Message: "User registered successfully", Token: token})
}

// Login handles user login requests and issues a token on success. Unknown
// login and wrong password produce the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(fmt.Errorf("%w: %w", core.ErrBadRequest, err))
		return
	}
	login := strings.TrimSpace(req.Login)

	user, err := h.Users.FindUserByLogin(c.Request.Context(), login)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			_ = c.Error(err)
			return
		}
		h.Hasher.CheckPasswordHash(req.Password, h.Hasher.DummyHash())
		customLog.Warnf("Login failed: unknown login")
		_ = c.Error(auth.ErrInvalidCredentials)
		return
	}

	if !h.Hasher.CheckPasswordHash(req.Password, user.PasswordHash) {
		customLog.Warnf("Login failed: password mismatch for user %d", user.ID)
		_ = c.Error(auth.ErrInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(domain.Identity{ID: user.ID, Login: user.Login})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Me returns the identity carried by the caller's token.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		_ = c.Error(auth.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, identity)
}
