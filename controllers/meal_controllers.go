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

type MealController struct {
	DB     *gorm.DB
	Window *services.MealWindowService
}

func NewMealController(db *gorm.DB) *MealController {
	return &MealController{
		DB:     db,
		Window: services.NewMealWindowService(db),
	}
}

type mealItemRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

// CreateMeal schedules a serving window for the caller's mess, snapshotting
// the offered items from the catalog.
func (mc *MealController) CreateMeal(c *gin.Context) {
	var body struct {
		MealTypeID  uint              `json:"meal_type_id" binding:"required"`
		ValidFrom   time.Time         `json:"valid_from" binding:"required"`
		ValidUntil  time.Time         `json:"valid_until" binding:"required"`
		ClosingTime time.Time         `json:"closing_time" binding:"required"`
		Items       []mealItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	messID := c.GetUint(middlewares.CtxMessID)

	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("please enter atleast one item"))
		return
	}
	if !body.ValidFrom.Before(body.ValidUntil) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid serving window"))
		return
	}
	if body.ClosingTime.After(body.ValidUntil) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("closing time must not be after valid until"))
		return
	}

	var mealType models.MealType
	if err := mc.DB.Where("id = ? AND mess_id = ?", body.MealTypeID, messID).First(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal type not found for this mess"))
		return
	}

	mealItems := make([]models.MealItem, 0, len(body.Items))
	for _, reqItem := range body.Items {
		var item models.Item
		if err := mc.DB.Where("id = ? AND mess_id = ?", reqItem.ItemID, messID).First(&item).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
			return
		}
		mealItems = append(mealItems, models.MealItem{
			ItemID: item.ID,
			Name:   item.Name,
			Units:  item.Units,
		})
	}

	meal := models.Meal{
		MealTypeID:  body.MealTypeID,
		MessID:      messID,
		ValidFrom:   body.ValidFrom,
		ValidUntil:  body.ValidUntil,
		ClosingTime: body.ClosingTime,
		Items:       mealItems,
	}
	if err := mc.DB.Create(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastMealUpdate(meal)
	utils.RespondJSON(c, http.StatusCreated, "Meal created", meal)
}

// GetCurrentMeals -> meals whose window has not ended, soonest first.
func (mc *MealController) GetCurrentMeals(c *gin.Context) {
	messID := c.GetUint(middlewares.CtxMessID)

	meals, err := mc.Window.CurrentMeals(messID, time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Current meals", meals)
}

// GetPreviousMeals -> ended meals, newest first, paginated.
func (mc *MealController) GetPreviousMeals(c *gin.Context) {
	messID := c.GetUint(middlewares.CtxMessID)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	meals, totalPages, err := mc.Window.PreviousMeals(messID, time.Now(), page, pageSize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Previous meals", gin.H{
		"meals":       meals,
		"total_pages": totalPages,
	})
}

func (mc *MealController) GetMeal(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("meal_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var meal models.Meal
	err := mc.DB.Preload("Items").Preload("MealType").
		Where("id = ? AND mess_id = ?", id, messID).
		First(&meal).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal detail", gin.H{
		"meal":    meal,
		"is_open": services.IsOpenForSelection(meal, time.Now()),
	})
}

// UpdateMeal reschedules a meal or replaces its offering. Items already
// selected by users keep their submitted snapshots.
func (mc *MealController) UpdateMeal(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("meal_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		MealTypeID  uint              `json:"meal_type_id"`
		ValidFrom   *time.Time        `json:"valid_from"`
		ValidUntil  *time.Time        `json:"valid_until"`
		ClosingTime *time.Time        `json:"closing_time"`
		Items       []mealItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var meal models.Meal
	if err := mc.DB.Where("id = ? AND mess_id = ?", id, messID).First(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	updates := map[string]interface{}{}
	if body.MealTypeID != 0 {
		var mealType models.MealType
		if err := mc.DB.Where("id = ? AND mess_id = ?", body.MealTypeID, messID).First(&mealType).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("meal type not found"))
			return
		}
		updates["meal_type_id"] = body.MealTypeID
	}

	validUntil := meal.ValidUntil
	if body.ValidUntil != nil {
		validUntil = *body.ValidUntil
		updates["valid_until"] = validUntil
	}
	if body.ValidFrom != nil {
		updates["valid_from"] = *body.ValidFrom
	}
	closingTime := meal.ClosingTime
	if body.ClosingTime != nil {
		closingTime = *body.ClosingTime
		updates["closing_time"] = closingTime
	}
	if closingTime.After(validUntil) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("closing time must not be after valid until"))
		return
	}

	var mealItems []models.MealItem
	if body.Items != nil {
		if len(body.Items) == 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("please enter atleast one item"))
			return
		}
		for _, reqItem := range body.Items {
			var item models.Item
			if err := mc.DB.Where("id = ? AND mess_id = ?", reqItem.ItemID, messID).First(&item).Error; err != nil {
				utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
				return
			}
			mealItems = append(mealItems, models.MealItem{
				MealID: meal.ID,
				ItemID: item.ID,
				Name:   item.Name,
				Units:  item.Units,
			})
		}
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&meal).Updates(updates).Error; err != nil {
				return err
			}
		}
		if mealItems != nil {
			if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&mealItems).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastMealUpdate(meal)
	utils.RespondJSON(c, http.StatusOK, "Meal updated successfully", nil)
}

// DeleteMeal removes the meal together with any selections opened for it.
func (mc *MealController) DeleteMeal(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("meal_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var meal models.Meal
	if err := mc.DB.Where("id = ? AND mess_id = ?", id, messID).First(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		var userMealIDs []uint
		if err := tx.Model(&models.UserMeal{}).Where("meal_id = ?", meal.ID).
			Pluck("id", &userMealIDs).Error; err != nil {
			return err
		}
		if len(userMealIDs) > 0 {
			if err := tx.Where("user_meal_id IN ?", userMealIDs).
				Delete(&models.UserMealItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("meal_id = ?", meal.ID).
				Delete(&models.UserMeal{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meal).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal deleted successfully", nil)
}
