package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/pkg/response"
	"github.com/nekogravitycat/noq-backend/internal/user"
)

// RequireRole ensures the authenticated user is active and holds one of roles.
// The user is reloaded so a role change takes effect before the token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireRole(userService user.Service, roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized", Kind: "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "user not found", Kind: "unauthorized"})
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "user is inactive", Kind: "unauthorized"})
			return
		}
		if !slices.Contains(roles, u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "forbidden: insufficient role", Kind: "forbidden"})
			return
		}

		auth.SetIdentity(c, u.ID, string(u.Role))
		c.Next()
	}
}
