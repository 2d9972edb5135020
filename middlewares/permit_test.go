package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
)

func permitTestRouter(role string, withRole bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if withRole {
				c.Set(CtxRole, role)
			}
			c.Next()
		},
		Permit(models.RoleAdmin, models.RoleCashier),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return r
}

func TestPermit(t *testing.T) {
	utils.InitLogger()

	cases := []struct {
		name     string
		role     string
		withRole bool
		want     int
	}{
		{"allowed role passes", models.RoleCashier, true, http.StatusOK},
		{"admin passes", models.RoleAdmin, true, http.StatusOK},
		{"other role forbidden", models.RoleUser, true, http.StatusForbidden},
		{"missing role unauthorized", "", false, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := permitTestRouter(tc.role, tc.withRole)
			req, _ := http.NewRequest("GET", "/guarded", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAllowed(t *testing.T) {
	allowList := []string{models.RoleAdmin, models.RoleSecretary}
	assert.True(t, Allowed(models.RoleAdmin, allowList))
	assert.True(t, Allowed(models.RoleSecretary, allowList))
	assert.False(t, Allowed(models.RoleUser, allowList))
	assert.False(t, Allowed("", nil))
}
