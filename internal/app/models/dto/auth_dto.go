package dto

import "github.com/yigit/schoolvax/internal/app/models"

// SignupRequest represents a coordinator registration
type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@school.edu"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
	School   string `json:"school" binding:"required" example:"Springfield High"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CoordinatorResponse is the public view of a coordinator
type CoordinatorResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	School string `json:"school"`
}

// NewCoordinatorResponse maps a coordinator to its public view
func NewCoordinatorResponse(c *models.Coordinator) CoordinatorResponse {
	return CoordinatorResponse{
		ID:     c.ID,
		Name:   c.Name,
		Email:  c.Email,
		School: c.School,
	}
}

// AuthResponse represents a successful signup or login
type AuthResponse struct {
	Token       string              `json:"token"`
	TokenType   string              `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64               `json:"expiresIn" example:"86400"`
	Coordinator CoordinatorResponse `json:"coordinator"`
}

// VerifyResponse carries the coordinator resolved from a token
type VerifyResponse struct {
	Coordinator CoordinatorResponse `json:"coordinator"`
}
