package models

import "time"

// Meal is one serving window: a menu offering valid between ValidFrom and
// ValidUntil. Users may open or change a selection until ClosingTime, which
// must not be later than ValidUntil.
type Meal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	MealTypeID  uint       `gorm:"not null" json:"meal_type_id"`
	MealType    MealType   `gorm:"foreignKey:MealTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"meal_type"`
	MessID      uint       `gorm:"index;not null" json:"mess_id"`
	Mess        Mess       `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ValidFrom   time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil  time.Time  `gorm:"index;not null" json:"valid_until"`
	ClosingTime time.Time  `gorm:"not null" json:"closing_time"`
	Items       []MealItem `gorm:"foreignKey:MealID" json:"items"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// MealItem is one offered item. Name and Units are copied from the catalog
// when the meal is created so later catalog edits leave the offering intact.
type MealItem struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	MealID uint    `gorm:"index;not null" json:"meal_id"`
	ItemID uint    `gorm:"not null" json:"item_id"`
	Name   string  `gorm:"type:varchar(40);not null" json:"name"`
	Units  float64 `gorm:"type:decimal(10,2);not null" json:"units"`
}
