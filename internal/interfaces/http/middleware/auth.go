package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"readora/internal/infrastructure/auth"
	"readora/internal/shared/logger"
	"readora/internal/shared/utils"
)

// ContextKeyUserID carries the verified identity-provider user ID.
const ContextKeyUserID = "user_id"

type AuthMiddleware struct {
	verifier *auth.TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier *auth.TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		if claims.Email != "" {
			c.Set("user_email", claims.Email)
		}

		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present and lets the
// request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		if claims, err := m.verifier.Verify(token); err == nil {
			c.Set(ContextKeyUserID, claims.UserID)
			if claims.Email != "" {
				c.Set("user_email", claims.Email)
			}
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserID returns the authenticated user ID from the request context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
