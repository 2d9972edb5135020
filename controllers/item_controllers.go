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

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(db *gorm.DB) *ItemController {
	return &ItemController{DB: db}
}

// CreateItem adds a catalog item. Secretaries are pinned to their own mess,
// admin may target any mess.
func (ic *ItemController) CreateItem(c *gin.Context) {
	var body struct {
		Name   string  `json:"name" binding:"required,min=4,max=40"`
		Units  float64 `json:"units" binding:"required,gte=0"`
		MessID uint    `json:"mess_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)
	if role != models.RoleAdmin && body.MessID != messID {
		utils.RespondError(c, http.StatusForbidden, errors.New("you can add items to your mess only"))
		return
	}

	var mess models.Mess
	if err := ic.DB.First(&mess, body.MessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	var existing models.Item
	if err := ic.DB.Where("name = ? AND mess_id = ?", body.Name, body.MessID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("item already exists"))
		return
	}

	item := models.Item{
		Name:   body.Name,
		Units:  body.Units,
		MessID: body.MessID,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

func (ic *ItemController) GetAllItems(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := ic.DB.Model(&models.Item{})
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All items", items)
}

func (ic *ItemController) GetItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := ic.DB.Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var item models.Item
	if err := q.First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item detail", item)
}

// UpdateItem edits name or unit weight. Historical selections keep the
// snapshot they were submitted with, so old bills are unaffected.
func (ic *ItemController) UpdateItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	var body struct {
		Name  string   `json:"name"`
		Units *float64 `json:"units"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	q := ic.DB.Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var item models.Item
	if err := q.First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		if len(body.Name) < 4 || len(body.Name) > 40 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item name"))
			return
		}
		updates["name"] = body.Name
	}
	if body.Units != nil {
		if *body.Units < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item units"))
			return
		}
		updates["units"] = *body.Units
	}

	if err := ic.DB.Model(&item).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item updated successfully", nil)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := ic.DB.Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var item models.Item
	if err := q.First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not found"))
		return
	}

	if err := ic.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item deleted successfully", nil)
}
