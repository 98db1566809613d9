package middleware

import (
	"context"
	"net/http"
	"strings"

	"maideasy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionValidator resolves a bearer token to a live auth session.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*utils.AuthSession, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthUserMiddleware admits requests whose token maps to an auth session
// and sets "userID" and "token" on the context.
func JWTAuthUserMiddleware(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Insufficient authorization"})
			return
		}

		session, err := sessions.ValidateSession(c.Request.Context(), tokenString)
		if err != nil {
			utils.GetLogger().Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Session expired, please sign in again"})
			return
		}

		c.Set("userID", session.UserID)
		c.Set("token", tokenString)
		c.Next()
	}
}
