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

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview rates a meal of the caller's mess, one review per user and
// meal.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var body struct {
		MealID uint   `json:"meal_id" binding:"required"`
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint(middlewares.CtxUserID)
	messID := c.GetUint(middlewares.CtxMessID)

	if body.Review != "" && len(body.Review) < 6 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("review is too short"))
		return
	}

	var meal models.Meal
	if err := rc.DB.Where("id = ? AND mess_id = ?", body.MealID, messID).First(&meal).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meal not found"))
		return
	}

	var existing models.Review
	if err := rc.DB.Where("meal_id = ? AND user_id = ?", body.MealID, userID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("meal already reviewed"))
		return
	}

	review := models.Review{
		MealID: body.MealID,
		UserID: userID,
		MessID: messID,
		Rating: body.Rating,
		Review: body.Review,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

// GetMealReviews lists the reviews of one meal with the average rating.
func (rc *ReviewController) GetMealReviews(c *gin.Context) {
	mealID, _ := strconv.Atoi(c.Param("meal_id"))
	messID := c.GetUint(middlewares.CtxMessID)

	var reviews []models.Review
	err := rc.DB.
		Where("meal_id = ? AND mess_id = ?", mealID, messID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var avg float64
	for _, r := range reviews {
		avg += float64(r.Rating)
	}
	if len(reviews) > 0 {
		avg /= float64(len(reviews))
	}

	utils.RespondJSON(c, http.StatusOK, "Meal reviews", gin.H{
		"reviews":        reviews,
		"average_rating": avg,
	})
}
