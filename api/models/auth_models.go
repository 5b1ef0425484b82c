// api/models/auth_models.go
package models

import "github.com/golang-jwt/jwt/v5"

// --- Auth Request/Response Structs ---

// RegisterRequest defines the structure for the register request body.
// bcrypt only reads the first 72 bytes, so longer passwords are refused.
type RegisterRequest struct {
	Login    string `json:"login" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is returned with 201 after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	Token string `json:"token"`
}

// --- JWT Claims ---

// CustomClaims includes standard claims plus the user id and login.
type CustomClaims struct {
	UserID int64  `json:"uid"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}
