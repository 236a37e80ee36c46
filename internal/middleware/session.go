package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chakravyuh/quiz-backend/internal/response"
	"github.com/chakravyuh/quiz-backend/internal/service"
)

// CheckSingleDeviceSession validates the JWT's JTI against the active session in Redis.
// If the JTI doesn't match, the request is rejected (the session was reset by a judge).
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only enforce for team tokens.
		if claims.TokenType != service.TokenTypeTeam {
			c.Next()
			return
		}

		if err := authService.ValidateTeamSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
