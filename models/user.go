package models

import "time"

// Roles understood by the permit middleware.
const (
	RoleAdmin     = "admin"
	RoleSecretary = "secretary"
	RoleStaff     = "staff"
	RoleCashier   = "cashier"
	RoleUser      = "user"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Contact   string    `gorm:"type:varchar(50)" json:"contact"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	MessID    uint      `gorm:"index;not null" json:"mess_id"`
	Mess      Mess      `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
