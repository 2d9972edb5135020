package models

import "time"

// MealType classifies meals within a mess (breakfast, lunch, dinner, ...).
type MealType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_meal_types_mess_label" json:"label"`
	MessID    uint      `gorm:"not null;uniqueIndex:idx_meal_types_mess_label" json:"mess_id"`
	Mess      Mess      `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
