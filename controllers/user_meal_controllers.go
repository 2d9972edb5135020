package controllers

import (
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

type UserMealController struct {
	DB        *gorm.DB
	Selection *services.SelectionService
}

func NewUserMealController(db *gorm.DB) *UserMealController {
	return &UserMealController{
		DB:        db,
		Selection: services.NewSelectionService(db),
	}
}

// SubmitMeal opens, updates or withdraws the caller's selection for a meal.
// isOpen=true upserts, isOpen=false withdraws. Rejected once the meal's
// closing time has passed.
func (umc *UserMealController) SubmitMeal(c *gin.Context) {
	mealID, _ := strconv.Atoi(c.Param("meal_id"))
	userID := c.GetUint(middlewares.CtxUserID)
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		IsOpen *bool                         `json:"is_open" binding:"required"`
		Items  []services.SelectionItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	created, err := umc.Selection.Submit(userID, messID, uint(mealID), body.Items, *body.IsOpen, time.Now())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var message, event string
	switch {
	case !*body.IsOpen:
		message, event = "User meal closed", board.EventSelectionWithdrawn
	case created:
		message, event = "User meal opened", board.EventSelectionOpened
	default:
		message, event = "User meal updated", board.EventSelectionUpdated
	}

	var totalUsers int64
	if err := umc.DB.Model(&models.UserMeal{}).
		Where("meal_id = ?", mealID).Count(&totalUsers).Error; err == nil {
		board.BroadcastSelectionChange(event, messID, uint(mealID), totalUsers)
	}

	utils.RespondJSON(c, http.StatusOK, message, nil)
}

// GetMealSelections lists the selections for one meal. Staff and secretary
// see every user, everyone else only their own row.
func (umc *UserMealController) GetMealSelections(c *gin.Context) {
	mealID, _ := strconv.Atoi(c.Param("meal_id"))
	userID := c.GetUint(middlewares.CtxUserID)
	messID := c.GetUint(middlewares.CtxMessID)
	role := c.GetString(middlewares.CtxRole)

	allUsers := middlewares.Allowed(role, []string{models.RoleStaff, models.RoleSecretary, models.RoleAdmin})
	selections, err := umc.Selection.ForMeal(uint(mealID), messID, userID, allUsers)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User meals", selections)
}

// AmendSelection lets staff replace the items on an existing selection while
// the meal is still open.
func (umc *UserMealController) AmendSelection(c *gin.Context) {
	userMealID, _ := strconv.Atoi(c.Param("user_meal_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		Items []services.SelectionItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := umc.Selection.Amend(uint(userMealID), messID, body.Items, time.Now()); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User meal updated", nil)
}

// GetMyMeals -> the caller's selection history, newest first.
func (umc *UserMealController) GetMyMeals(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxUserID)

	selections, err := umc.Selection.History(userID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User meals", selections)
}
