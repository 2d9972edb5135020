package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type MealTypeController struct {
	DB *gorm.DB
}

func NewMealTypeController(db *gorm.DB) *MealTypeController {
	return &MealTypeController{DB: db}
}

func (mtc *MealTypeController) CreateMealType(c *gin.Context) {
	var body struct {
		Label  string `json:"label" binding:"required,min=3,max=50"`
		MessID uint   `json:"mess_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)
	if role != models.RoleAdmin && body.MessID != messID {
		utils.RespondError(c, http.StatusForbidden, errors.New("you can add meal types to your mess only"))
		return
	}

	var mess models.Mess
	if err := mtc.DB.First(&mess, body.MessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	var existing models.MealType
	if err := mtc.DB.Where("label = ? AND mess_id = ?", body.Label, body.MessID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("meal type already exists"))
		return
	}

	mealType := models.MealType{
		Label:  body.Label,
		MessID: body.MessID,
	}
	if err := mtc.DB.Create(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Meal type created", mealType)
}

func (mtc *MealTypeController) GetAllMealTypes(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := mtc.DB.Model(&models.MealType{})
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var mealTypes []models.MealType
	if err := q.Find(&mealTypes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All meal types", mealTypes)
}

func (mtc *MealTypeController) UpdateMealType(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		Label string `json:"label" binding:"required,min=3,max=50"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	q := mtc.DB.Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var mealType models.MealType
	if err := q.First(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal type not found"))
		return
	}

	if err := mtc.DB.Model(&mealType).Update("label", body.Label).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal type updated successfully", nil)
}

func (mtc *MealTypeController) DeleteMealType(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := mtc.DB.Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var mealType models.MealType
	if err := q.First(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal type not found"))
		return
	}

	if err := mtc.DB.Delete(&mealType).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meal type deleted successfully", nil)
}
