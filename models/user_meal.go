package models

import "time"

// UserMeal is a user's selection for one meal. The composite unique index is
// load-bearing: together with the ON CONFLICT upsert in the selection service
// it guarantees at most one live row per (user, meal) pair even under
// concurrent submissions.
type UserMeal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_meals_user_meal" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MealID    uint           `gorm:"not null;uniqueIndex:idx_user_meals_user_meal" json:"meal_id"`
	Meal      Meal           `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MessID    uint           `gorm:"index;not null" json:"mess_id"`
	Items     []UserMealItem `gorm:"foreignKey:UserMealID" json:"items"`
	CreatedAt time.Time      `gorm:"index;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// UserMealItem snapshots the item name and unit weight at submission time.
// Historical selections and the bills computed from them stay stable when the
// catalog is edited afterwards.
type UserMealItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserMealID uint    `gorm:"index;not null" json:"user_meal_id"`
	ItemID     uint    `gorm:"not null" json:"item_id"`
	Name       string  `gorm:"type:varchar(40);not null" json:"name"`
	Units      float64 `gorm:"type:decimal(10,2);not null" json:"units"`
	Quantity   int     `gorm:"not null" json:"quantity"`
}
