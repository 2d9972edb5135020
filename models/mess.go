package models

import "time"

// Mess is the multi-tenancy boundary. Every other row carries a MessID and
// non-admin roles never see rows outside their own mess.
type Mess struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
