package services

import (
	"time"

	"github.com/messhub/mess-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionService is the ledger of who opened which meal with what items.
// At most one UserMeal row exists per (user, meal): the composite unique
// index plus the ON CONFLICT upsert below make concurrent submissions safe.
type SelectionService struct {
	DB *gorm.DB
}

func NewSelectionService(db *gorm.DB) *SelectionService {
	return &SelectionService{DB: db}
}

// SelectionItemInput is one chosen item of a submission.
type SelectionItemInput struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// Submit opens, updates or withdraws the caller's selection for a meal.
//
// isOpen=true upserts the selection, snapshotting item name and unit weight
// from the meal's offering; isOpen=false deletes it. Both directions are
// refused once the meal's closing time has passed.
// Returns created=true when a new selection row was opened.
func (s *SelectionService) Submit(userID, messID, mealID uint, items []SelectionItemInput, isOpen bool, now time.Time) (created bool, err error) {
	if isOpen && len(items) == 0 {
		return false, &ValidationError{Message: "please add atleast one item"}
	}

	var meal models.Meal
	if err := s.DB.Preload("Items").
		Where("id = ? AND mess_id = ?", mealID, messID).
		First(&meal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, &NotFoundError{Message: "meal not found"}
		}
		return false, err
	}

	if !IsOpenForSelection(meal, now) {
		return false, &WindowClosedError{}
	}

	if !isOpen {
		return false, s.withdraw(userID, mealID)
	}

	offered := make(map[uint]models.MealItem, len(meal.Items))
	for _, mi := range meal.Items {
		offered[mi.ItemID] = mi
	}

	rows := make([]models.UserMealItem, 0, len(items))
	for _, it := range items {
		mi, ok := offered[it.ItemID]
		if !ok {
			return false, &ValidationError{Message: "item not found"}
		}
		if it.Quantity < 1 {
			return false, &ValidationError{Message: "invalid item quantity"}
		}
		rows = append(rows, models.UserMealItem{
			ItemID:   mi.ItemID,
			Name:     mi.Name,
			Units:    mi.Units,
			Quantity: it.Quantity,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.UserMeal{}).
			Where("user_id = ? AND meal_id = ?", userID, mealID).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		userMeal := models.UserMeal{
			UserID: userID,
			MealID: mealID,
			MessID: messID,
		}
		if err := tx.Omit("Items").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "meal_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": now}),
		}).Create(&userMeal).Error; err != nil {
			return err
		}

		// The upsert path does not reliably fill the ID, reload by key.
		if err := tx.Where("user_id = ? AND meal_id = ?", userID, mealID).
			First(&userMeal).Error; err != nil {
			return err
		}

		if err := tx.Where("user_meal_id = ?", userMeal.ID).
			Delete(&models.UserMealItem{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].UserMealID = userMeal.ID
		}
		return tx.Create(&rows).Error
	})
	return created, err
}

func (s *SelectionService) withdraw(userID, mealID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var userMeal models.UserMeal
		if err := tx.Where("user_id = ? AND meal_id = ?", userID, mealID).
			First(&userMeal).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Message: "user meal not found"}
			}
			return err
		}
		if err := tx.Where("user_meal_id = ?", userMeal.ID).
			Delete(&models.UserMealItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userMeal).Error
	})
}

// Amend lets staff replace the items of an existing selection, under the
// same offered-set and closing-time rules as Submit.
func (s *SelectionService) Amend(userMealID, messID uint, items []SelectionItemInput, now time.Time) error {
	if len(items) == 0 {
		return &ValidationError{Message: "please add atleast one item"}
	}

	var userMeal models.UserMeal
	if err := s.DB.Where("id = ? AND mess_id = ?", userMealID, messID).
		First(&userMeal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Message: "user meal not found"}
		}
		return err
	}

	var meal models.Meal
	if err := s.DB.Preload("Items").First(&meal, userMeal.MealID).Error; err != nil {
		return err
	}
	if !IsOpenForSelection(meal, now) {
		return &WindowClosedError{}
	}

	offered := make(map[uint]models.MealItem, len(meal.Items))
	for _, mi := range meal.Items {
		offered[mi.ItemID] = mi
	}

	rows := make([]models.UserMealItem, 0, len(items))
	for _, it := range items {
		mi, ok := offered[it.ItemID]
		if !ok {
			return &ValidationError{Message: "item not found"}
		}
		if it.Quantity < 1 {
			return &ValidationError{Message: "invalid item quantity"}
		}
		rows = append(rows, models.UserMealItem{
			UserMealID: userMeal.ID,
			ItemID:     mi.ItemID,
			Name:       mi.Name,
			Units:      mi.Units,
			Quantity:   it.Quantity,
		})
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_meal_id = ?", userMeal.ID).
			Delete(&models.UserMealItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&userMeal).UpdateColumn("updated_at", now).Error
	})
}

// ForMeal lists selections for one meal: the caller's own row, or every row
// when allUsers is set (staff view).
func (s *SelectionService) ForMeal(mealID, messID, userID uint, allUsers bool) ([]models.UserMeal, error) {
	q := s.DB.Preload("Items").Preload("User").
		Where("meal_id = ? AND mess_id = ?", mealID, messID)
	if !allUsers {
		q = q.Where("user_id = ?", userID)
	}

	var selections []models.UserMeal
	if err := q.Find(&selections).Error; err != nil {
		return nil, err
	}
	return selections, nil
}

// History lists a user's selections newest first, meals preloaded.
func (s *SelectionService) History(userID uint) ([]models.UserMeal, error) {
	var selections []models.UserMeal
	err := s.DB.Preload("Items").Preload("Meal").Preload("Meal.MealType").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return selections, nil
}
