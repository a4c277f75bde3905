package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/pkg/helpers"
	"github.com/taskhive/taskhive/pkg/response"
)

// Context keys set by BearerAuth.
const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

const bearerPrefix = "bearer "

// Gateway failure bodies. A valid-looking token whose subject no longer
// resolves gets the same response as a bad token.
const (
	detailNotAuthenticated = "Not authenticated"
	detailBadCredentials   = "Could not validate credentials"
)

// BearerAuth validates the Authorization header, verifies the bearer token,
// and resolves its subject to an active user before the handler runs.
// Protected routes read the authenticated identity from the gin context.
func BearerAuth(jwt *helpers.JWTManager, auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || len(header) <= len(bearerPrefix) ||
			!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			response.Error(c, http.StatusForbidden, detailNotAuthenticated)
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])

		subject, ok := jwt.Verify(token)
		if !ok {
			response.Error(c, http.StatusUnauthorized, detailBadCredentials)
			return
		}

		u, err := auth.ResolveSubject(c.Request.Context(), subject)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, detailBadCredentials)
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}
