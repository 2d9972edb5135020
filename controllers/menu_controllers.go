package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// CreateMenu sets the weekly plan for one (day, meal type) slot of the
// caller's mess.
func (mnc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		Day        string            `json:"day" binding:"required"`
		MealTypeID uint              `json:"meal_type_id" binding:"required"`
		Items      []mealItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	messID := c.GetUint(middlewares.CtxMessID)
	day := strings.ToLower(body.Day)

	if !weekdays[day] {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid day"))
		return
	}
	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("provide atleast one item"))
		return
	}

	var mealType models.MealType
	if err := mnc.DB.Where("id = ? AND mess_id = ?", body.MealTypeID, messID).First(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal type not found"))
		return
	}

	var existing models.Menu
	if err := mnc.DB.Where("day = ? AND meal_type_id = ? AND mess_id = ?", day, body.MealTypeID, messID).
		First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("menu already exists for this day and meal type"))
		return
	}

	menuItems := make([]models.MenuItem, 0, len(body.Items))
	for _, reqItem := range body.Items {
		var item models.Item
		if err := mnc.DB.Where("id = ? AND mess_id = ?", reqItem.ItemID, messID).First(&item).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
			return
		}
		menuItems = append(menuItems, models.MenuItem{ItemID: item.ID})
	}

	menu := models.Menu{
		Day:        day,
		MealTypeID: body.MealTypeID,
		MessID:     messID,
		Items:      menuItems,
	}
	if err := mnc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

func (mnc *MenuController) GetAllMenus(c *gin.Context) {
	messID := c.GetUint(middlewares.CtxMessID)

	var menus []models.Menu
	err := mnc.DB.Preload("Items.Item").Preload("MealType").
		Where("mess_id = ?", messID).
		Find(&menus).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All menus", menus)
}

func (mnc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		Items []mealItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("provide atleast one item"))
		return
	}

	var menu models.Menu
	if err := mnc.DB.Where("id = ? AND mess_id = ?", id, messID).First(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	menuItems := make([]models.MenuItem, 0, len(body.Items))
	for _, reqItem := range body.Items {
		var item models.Item
		if err := mnc.DB.Where("id = ? AND mess_id = ?", reqItem.ItemID, messID).First(&item).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
			return
		}
		menuItems = append(menuItems, models.MenuItem{MenuID: menu.ID, ItemID: item.ID})
	}

	err := mnc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Create(&menuItems).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", nil)
}

func (mnc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var menu models.Menu
	if err := mnc.DB.Where("id = ? AND mess_id = ?", id, messID).First(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	err := mnc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu deleted successfully", nil)
}
