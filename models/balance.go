package models

import "time"

// Balance is the signed running ledger per user, created lazily on the first
// bill settlement. It only moves through settlements, by
// balance += payment - netAmount, applied as a server-side increment.
type Balance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"unique;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Balance   float64   `gorm:"type:decimal(10,2);not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
