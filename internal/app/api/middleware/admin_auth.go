package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyosobang/passgate/internal/app/service/adminauth"
	"github.com/hyosobang/passgate/pkg/response"
)

// AdminAuthMiddleware guards the admin group. Requests must carry a valid
// Bearer session token obtained from /admin/login; a client-held flag is
// never trusted.
func AdminAuthMiddleware(auth *adminauth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message(response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		claims, err := auth.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message(response.APIResponseCodeUnauthorized, "invalid or expired session"))
			return
		}
		c.Set("admin_role", claims.Role)
		c.Next()
	}
}
