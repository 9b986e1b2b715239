package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	organizationHeader = "X-Organization-ID"
	userHeader         = "X-User-ID"

	organizationCtxKey = "organizationID"
	userCtxKey         = "userID"
)

// TenantMiddleware resolves the acting organization and user from request
// headers. The surrounding platform authenticates callers; this service only
// needs to know which tenant the call is scoped to. Requests without an
// organization fall back to defaultOrganizationID; if none is configured the
// request is rejected.
func TenantMiddleware(defaultOrganizationID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationID := c.GetHeader(organizationHeader)
		if organizationID == "" {
			organizationID = defaultOrganizationID
		}
		if organizationID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing " + organizationHeader + " header"})
			return
		}

		userID := c.GetHeader(userHeader)
		if userID == "" {
			userID = "system"
		}

		c.Set(organizationCtxKey, organizationID)
		c.Set(userCtxKey, userID)
		c.Next()
	}
}

// GetOrganizationFromContext returns the tenant the request is scoped to.
func GetOrganizationFromContext(c *gin.Context) (string, bool) {
	organizationID := c.GetString(organizationCtxKey)
	return organizationID, organizationID != ""
}

// GetUserFromContext returns the acting user recorded in audit fields.
func GetUserFromContext(c *gin.Context) string {
	userID := c.GetString(userCtxKey)
	if userID == "" {
		return "system"
	}
	return userID
}
