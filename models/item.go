package models

import "time"

// Item is a catalog entry. Units is the billing weight of one serving;
// consumption accumulates as Units * quantity selected.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_items_mess_name" json:"name"`
	Units     float64   `gorm:"type:decimal(10,2);not null" json:"units"`
	MessID    uint      `gorm:"not null;uniqueIndex:idx_items_mess_name" json:"mess_id"`
	Mess      Mess      `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
