package services

import (
	"time"

	"github.com/messhub/mess-app/models"
	"gorm.io/gorm"
)

// MealWindowService classifies meals as open or closed for selection and
// serves the current/previous listings. Pure reads, no side effects.
type MealWindowService struct {
	DB *gorm.DB
}

func NewMealWindowService(db *gorm.DB) *MealWindowService {
	return &MealWindowService{DB: db}
}

// IsOpenForSelection reports whether a selection may still be submitted:
// strictly before the closing time, closing instant itself is already closed.
func IsOpenForSelection(meal models.Meal, now time.Time) bool {
	return now.Before(meal.ClosingTime)
}

// MealWithCount carries a meal plus how many users have opened it.
type MealWithCount struct {
	models.Meal
	TotalUsers int64 `json:"total_users"`
}

// CurrentMeals lists meals whose serving window has not ended yet,
// ascending by valid_until so the next meal comes first.
func (s *MealWindowService) CurrentMeals(messID uint, now time.Time) ([]MealWithCount, error) {
	var meals []models.Meal
	err := s.DB.Preload("Items").Preload("MealType").
		Where("mess_id = ? AND valid_until >= ?", messID, now).
		Order("valid_until asc").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return s.withCounts(meals)
}

// PreviousMeals lists ended meals, newest first, paginated. Returns the
// rows and the total page count.
func (s *MealWindowService) PreviousMeals(messID uint, now time.Time, page, pageSize int) ([]MealWithCount, int64, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	var total int64
	if err := s.DB.Model(&models.Meal{}).
		Where("mess_id = ? AND valid_until < ?", messID, now).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meals []models.Meal
	err := s.DB.Preload("Items").Preload("MealType").
		Where("mess_id = ? AND valid_until < ?", messID, now).
		Order("valid_until desc").
		Offset(page * pageSize).Limit(pageSize).
		Find(&meals).Error
	if err != nil {
		return nil, 0, err
	}

	withCounts, err := s.withCounts(meals)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return withCounts, totalPages, nil
}

func (s *MealWindowService) withCounts(meals []models.Meal) ([]MealWithCount, error) {
	result := make([]MealWithCount, 0, len(meals))
	if len(meals) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}

	type mealCount struct {
		MealID uint
		Total  int64
	}
	var counts []mealCount
	err := s.DB.Model(&models.UserMeal{}).
		Select("meal_id, count(*) as total").
		Where("meal_id IN ?", ids).
		Group("meal_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byMeal := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byMeal[c.MealID] = c.Total
	}
	for _, m := range meals {
		result = append(result, MealWithCount{Meal: m, TotalUsers: byMeal[m.ID]})
	}
	return result, nil
}
