package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/utils"
)

// Allowed is the single policy check: an identity passes when its role is in
// the operation's allow-list. Tenant scoping is layered on inside handlers
// via the mess id claim.
func Allowed(role string, allowList []string) bool {
	for _, allowed := range allowList {
		if role == allowed {
			return true
		}
	}
	return false
}

// Permit gates a route group on an allow-list of roles.
func Permit(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(CtxRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok || !Allowed(role, roles) {
			utils.RespondError(c, http.StatusForbidden, errors.New("you do not have permission"))
			c.Abort()
			return
		}

		c.Next()
	}
}
