package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/services"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type BalanceController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBalanceController(db *gorm.DB) *BalanceController {
	return &BalanceController{
		DB:      db,
		Billing: services.NewBillingService(db),
	}
}

// GetBalance -> cashier may look up anyone, everyone else gets their own.
// Users without a settled bill read as zero.
func (blc *BalanceController) GetBalance(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxUserID)
	role := c.GetString(middlewares.CtxRole)

	target := userID
	if role == models.RoleCashier || role == models.RoleAdmin {
		if id, err := strconv.Atoi(c.Param("user_id")); err == nil {
			target = uint(id)
		}
	}

	balance, err := blc.Billing.UserBalance(target)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User balance", gin.H{
		"user_id": target,
		"balance": balance,
	})
}
