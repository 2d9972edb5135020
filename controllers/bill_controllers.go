package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/board"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/services"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type BillController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillController(db *gorm.DB) *BillController {
	return &BillController{
		DB:      db,
		Billing: services.NewBillingService(db),
	}
}

// GenerateBills runs a billing period over the cashier's mess. One bill per
// user with consumption in the range; the whole run commits or rolls back
// together.
func (bc *BillController) GenerateBills(c *gin.Context) {
	var body struct {
		From              time.Time `json:"from" binding:"required"`
		To                time.Time `json:"to" binding:"required"`
		UnitCost          *float64  `json:"unit_cost" binding:"required"`
		AdditionalCharges *float64  `json:"additional_charges" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	messID := c.GetUint(middlewares.CtxMessID)
	cashierID := c.GetUint(middlewares.CtxUserID)

	bills, err := bc.Billing.GenerateBills(messID, cashierID, body.From, body.To, *body.UnitCost, *body.AdditionalCharges)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Billing run for mess %d: %d bills over [%s, %s]",
		messID, len(bills), body.From.Format(time.RFC3339), body.To.Format(time.RFC3339))
	board.BroadcastBillsGenerated(messID, len(bills))

	utils.RespondJSON(c, http.StatusOK, "Bills generated", bills)
}

// GetBills -> cashier sees the whole mess with an optional paid filter,
// everyone else their own bills. Paginated.
func (bc *BillController) GetBills(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxUserID)
	messID := c.GetUint(middlewares.CtxMessID)
	role := c.GetString(middlewares.CtxRole)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	q := bc.DB.Model(&models.Bill{})
	if role == models.RoleCashier {
		q = q.Where("mess_id = ?", messID)
		if paid := c.Query("paid"); paid != "" {
			q = q.Where("is_paid = ?", paid == "true")
		}
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bills []models.Bill
	err := q.Preload("User").
		Order("created_at desc").
		Offset(page * pageSize).Limit(pageSize).
		Find(&bills).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	utils.RespondJSON(c, http.StatusOK, "Bills", gin.H{
		"bills":       bills,
		"total_pages": totalPages,
	})
}

func (bc *BillController) GetBill(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("bill_id"))
	messID := c.GetUint(middlewares.CtxMessID)
	role := c.GetString(middlewares.CtxRole)

	q := bc.DB.Preload("User").Preload("Cashier").Preload("Mess").
		Where("id = ? AND mess_id = ?", id, messID)
	// Only the cashier and admin may open other members' bills.
	if role != models.RoleCashier && role != models.RoleAdmin {
		q = q.Where("user_id = ?", c.GetUint(middlewares.CtxUserID))
	}

	var bill models.Bill
	if err := q.First(&bill).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("bill not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill detail", gin.H{
		"bill":    bill,
		"user":    gin.H{"id": bill.User.ID, "name": bill.User.Name},
		"cashier": gin.H{"id": bill.Cashier.ID, "name": bill.Cashier.Name},
		"mess":    gin.H{"id": bill.Mess.ID, "name": bill.Mess.Name},
	})
}

// SettleBill records a payment and moves the user's running balance by
// payment - netAmount.
func (bc *BillController) SettleBill(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("bill_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		Payment *float64 `json:"payment" binding:"required"`
		IsPaid  *bool    `json:"is_paid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := bc.Billing.SettleBill(messID, uint(id), *body.Payment, *body.IsPaid)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	balance, err := bc.Billing.UserBalance(bill.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastBillSettled(*bill)
	utils.RespondJSON(c, http.StatusOK, "Bill updated successfully", gin.H{
		"bill":    bill,
		"balance": balance,
	})
}
