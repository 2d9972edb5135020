package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
	"gorm.io/gorm"
)

type MessController struct {
	DB *gorm.DB
}

func NewMessController(db *gorm.DB) *MessController {
	return &MessController{DB: db}
}

func (mc *MessController) CreateMess(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	name := strings.ToUpper(strings.TrimSpace(body.Name))

	var existing models.Mess
	if err := mc.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("mess already exists"))
		return
	}

	mess := models.Mess{Name: name}
	if err := mc.DB.Create(&mess).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Mess created", mess)
}

// GetAllMesses lists every mess with its member count.
func (mc *MessController) GetAllMesses(c *gin.Context) {
	type messRow struct {
		models.Mess
		TotalUsers int64 `json:"total_users"`
	}

	var messes []models.Mess
	if err := mc.DB.Find(&messes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rows := make([]messRow, 0, len(messes))
	for _, m := range messes {
		var count int64
		if err := mc.DB.Model(&models.User{}).Where("mess_id = ?", m.ID).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		rows = append(rows, messRow{Mess: m, TotalUsers: count})
	}

	utils.RespondJSON(c, http.StatusOK, "All messes", rows)
}

func (mc *MessController) GetMess(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("mess_id"))

	var mess models.Mess
	if err := mc.DB.First(&mess, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Mess detail", mess)
}

func (mc *MessController) UpdateMess(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("mess_id"))

	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var mess models.Mess
	if err := mc.DB.First(&mess, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	name := strings.ToUpper(strings.TrimSpace(body.Name))
	if err := mc.DB.Model(&mess).Update("name", name).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Mess updated successfully", nil)
}

func (mc *MessController) DeleteMess(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("mess_id"))

	var mess models.Mess
	if err := mc.DB.First(&mess, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	var members int64
	if err := mc.DB.Model(&models.User{}).Where("mess_id = ?", mess.ID).Count(&members).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if members > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("mess still has members"))
		return
	}

	if err := mc.DB.Delete(&mess).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Mess deleted successfully", nil)
}
