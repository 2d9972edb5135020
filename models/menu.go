package models

import "time"

// Menu is the recurring weekly plan: which items a mess serves for a meal
// type on a given weekday. Meals are scheduled from it; the menu itself has
// no serving window.
type Menu struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Day        string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_menus_mess_day_type" json:"day"`
	MealTypeID uint       `gorm:"not null;uniqueIndex:idx_menus_mess_day_type" json:"meal_type_id"`
	MealType   MealType   `gorm:"foreignKey:MealTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"meal_type"`
	MessID     uint       `gorm:"not null;uniqueIndex:idx_menus_mess_day_type" json:"mess_id"`
	Mess       Mess       `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Items      []MenuItem `gorm:"foreignKey:MenuID" json:"items"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

type MenuItem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	MenuID uint `gorm:"index;not null" json:"menu_id"`
	ItemID uint `gorm:"not null" json:"item_id"`
	Item   Item `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"item"`
}
