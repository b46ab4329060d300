package rbac

import (
	"net/http"

	"lawdesk-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller has any of the provided roles.
// Rules:
// - super_admin bypasses all checks
// - a missing or empty role in context is a 401, not a 403
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role required"})
			return
		}

		if IsSuperAdmin(role) {
			c.Next()
			return
		}

		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireStaff gates the back-office area: any firm role.
func RequireStaff() gin.HandlerFunc {
	return RequireAnyRole(StaffRoles()...)
}

// RequireAdmin gates approval and booking administration.
func RequireAdmin() gin.HandlerFunc {
	return RequireAnyRole(AdminRoles()...)
}
