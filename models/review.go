package models

import "time"

// Review is a user's rating of a served meal, one per (user, meal).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MealID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_meal" json:"meal_id"`
	Meal      Meal      `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_meal" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MessID    uint      `gorm:"index;not null" json:"mess_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Review    string    `gorm:"type:text" json:"review"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
