package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/services"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type StatsController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		DB:      db,
		Billing: services.NewBillingService(db),
	}
}

// monthStart returns the first instant of the current month.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

type mealTypeCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

func (sc *StatsController) mealTypeBreakdown(messID uint, userID uint, from time.Time) ([]mealTypeCount, error) {
	q := sc.DB.Model(&models.UserMeal{}).
		Select("meal_types.label as label, count(*) as count").
		Joins("JOIN meals ON meals.id = user_meals.meal_id").
		Joins("JOIN meal_types ON meal_types.id = meals.meal_type_id").
		Where("user_meals.mess_id = ? AND user_meals.created_at >= ?", messID, from).
		Group("meal_types.label")
	if userID != 0 {
		q = q.Where("user_meals.user_id = ?", userID)
	}

	var rows []mealTypeCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type monthlyTotal struct {
	Month      string  `json:"month"`
	TotalUnits float64 `json:"total_units"`
	TotalBill  float64 `json:"total_bill"`
}

// monthlyBillTotals folds the last six months of bills into per-month unit
// and amount totals. Grouping happens in Go so the query stays portable
// across MySQL and the sqlite test databases.
func (sc *StatsController) monthlyBillTotals(messID uint, now time.Time) ([]monthlyTotal, error) {
	since := monthStart(now).AddDate(0, -5, 0)

	var bills []models.Bill
	if err := sc.DB.Where("mess_id = ? AND `to` >= ?", messID, since).
		Find(&bills).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]*monthlyTotal)
	for _, b := range bills {
		key := b.To.Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &monthlyTotal{Month: key}
			byMonth[key] = row
		}
		row.TotalUnits += b.TotalUnits
		row.TotalBill += b.NetAmount
	}

	months := make([]monthlyTotal, 0, len(byMonth))
	for _, row := range byMonth {
		months = append(months, *row)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}

// GetUserStats -> month-to-date units and meals, balance, recent bills and
// the meal-type breakdown for the calling user.
func (sc *StatsController) GetUserStats(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxUserID)
	messID := c.GetUint(middlewares.CtxMessID)

	now := time.Now()
	from := monthStart(now)

	totalUnits, err := sc.Billing.UserConsumption(userID, messID, from, now)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalMeals int64
	if err := sc.DB.Model(&models.UserMeal{}).
		Where("user_id = ? AND created_at >= ?", userID, from).
		Count(&totalMeals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	balance, err := sc.Billing.UserBalance(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bills []models.Bill
	if err := sc.DB.Where("user_id = ?", userID).
		Order("`to` desc").Limit(6).
		Find(&bills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mealTypes, err := sc.mealTypeBreakdown(messID, userID, from)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User stats", gin.H{
		"total_units": totalUnits,
		"total_meals": totalMeals,
		"balance":     balance,
		"bills":       bills,
		"meal_types":  mealTypes,
	})
}

// GetSecretaryStats -> mess-wide month-to-date consumption and the
// six-month unit trend.
func (sc *StatsController) GetSecretaryStats(c *gin.Context) {
	messID := c.GetUint(middlewares.CtxMessID)

	now := time.Now()
	from := monthStart(now)

	totals, err := sc.Billing.ConsumptionInRange(messID, from, now)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	var totalUnits float64
	for _, units := range totals {
		totalUnits += units
	}

	var totalMeals int64
	if err := sc.DB.Model(&models.UserMeal{}).
		Where("mess_id = ? AND created_at >= ?", messID, from).
		Count(&totalMeals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mealTypes, err := sc.mealTypeBreakdown(messID, 0, from)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	months, err := sc.monthlyBillTotals(messID, now)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Secretary stats", gin.H{
		"total_units":      totalUnits,
		"total_meals":      totalMeals,
		"meal_types":       mealTypes,
		"last_six_months":  months,
		"users_with_units": len(totals),
	})
}

// GetCashierStats -> paid/unpaid bill counts, collected vs outstanding
// amounts and the six-month billing trend.
func (sc *StatsController) GetCashierStats(c *gin.Context) {
	messID := c.GetUint(middlewares.CtxMessID)

	now := time.Now()
	from := monthStart(now)

	var unpaidBills, paidBills int64
	if err := sc.DB.Model(&models.Bill{}).
		Where("mess_id = ? AND created_at >= ? AND is_paid = ?", messID, from, false).
		Count(&unpaidBills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := sc.DB.Model(&models.Bill{}).
		Where("mess_id = ? AND created_at >= ? AND is_paid = ?", messID, from, true).
		Count(&paidBills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type amountRow struct {
		IsPaid bool    `json:"is_paid"`
		Total  float64 `json:"total"`
	}
	var amounts []amountRow
	err := sc.DB.Model(&models.Bill{}).
		Select("is_paid, sum(net_amount) as total").
		Where("mess_id = ? AND created_at >= ?", messID, from).
		Group("is_paid").
		Order("is_paid asc").
		Scan(&amounts).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	months, err := sc.monthlyBillTotals(messID, now)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cashier stats", gin.H{
		"unpaid_bills":    unpaidBills,
		"paid_bills":      paidBills,
		"collected":       amounts,
		"last_six_months": months,
	})
}

// GetAdminStats -> platform totals across every mess.
func (sc *StatsController) GetAdminStats(c *gin.Context) {
	var totalUsers, activeUsers, inactiveUsers int64
	if err := sc.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := sc.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	inactiveUsers = totalUsers - activeUsers

	type messRow struct {
		Mess       string `json:"mess"`
		TotalUsers int64  `json:"total_users"`
	}
	var perMess []messRow
	err := sc.DB.Model(&models.User{}).
		Select("messes.name as mess, count(*) as total_users").
		Joins("JOIN messes ON messes.id = users.mess_id").
		Group("messes.name").
		Scan(&perMess).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Admin stats", gin.H{
		"total_users":    totalUsers,
		"active_users":   activeUsers,
		"inactive_users": inactiveUsers,
		"users_per_mess": perMess,
	})
}
