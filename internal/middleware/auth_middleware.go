package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/apperrors"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextKeyCoordinatorID = "coordinatorID"
	ContextKeyEmail         = "email"
)

// AuthMiddleware authenticates coordinators by bearer token
type AuthMiddleware struct {
	jwtService      *auth.JWTService
	coordinatorRepo repositories.CoordinatorRepository
	logger          zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, coordinatorRepo repositories.CoordinatorRepository, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:      jwtService,
		coordinatorRepo: coordinatorRepo,
		logger:          logger,
	}
}

// JWTAuth validates the Authorization header and requires the coordinator to still exist
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			case errors.Is(err, apperrors.ErrInvalidFormat):
				details = "Invalid token format"
			}
			abortUnauthorized(c, code, "Authentication failed", details)
			return
		}

		coordinator, err := m.coordinatorRepo.GetByID(c.Request.Context(), claims.CoordinatorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				m.logger.Warn().Str("coordinatorId", claims.CoordinatorID).Msg("Token for a deleted coordinator")
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Coordinator no longer exists")
				return
			}
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextKeyCoordinatorID, coordinator.ID)
		c.Set(ContextKeyEmail, coordinator.Email)
		c.Next()
	}
}

// CoordinatorID returns the authenticated coordinator's id
func CoordinatorID(c *gin.Context) string {
	return c.GetString(ContextKeyCoordinatorID)
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
