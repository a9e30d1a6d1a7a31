package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/service"
)

// CheckAdminSession validates the JWT's JTI against the active session
// in Redis. A token issued before the most recent login (or before a
// logout) is rejected. Must run after RequireAdminJWT.
func CheckAdminSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.AdminID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
