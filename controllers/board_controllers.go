package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/messhub/mess-app/board"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BoardHandler upgrades a dashboard connection and keeps it registered with
// the hub until the peer goes away.
func BoardHandler(c *gin.Context) {
	roleValue, exists := c.Get(middlewares.CtxRole)
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleValue.(string)

	allowed := []string{models.RoleAdmin, models.RoleSecretary, models.RoleStaff, models.RoleCashier}
	if !middlewares.Allowed(role, allowed) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	messID := c.GetUint(middlewares.CtxMessID)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	board.RegisterClient(ws, role, messID)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	board.UnregisterClient(ws)
}
