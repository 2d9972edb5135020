package models

import "time"

// Bill settles one user's consumption over [From, To].
// NetAmount = TotalUnits*UnitCost + AdditionalCharges, always recomputed from
// its inputs when generated, never patched independently.
type Bill struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Reference         string    `gorm:"type:varchar(36);unique;not null" json:"reference"`
	MessID            uint      `gorm:"index;not null" json:"mess_id"`
	Mess              Mess      `gorm:"foreignKey:MessID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CashierID         uint      `gorm:"not null" json:"cashier_id"`
	Cashier           User      `gorm:"foreignKey:CashierID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	From              time.Time `gorm:"not null" json:"from"`
	To                time.Time `gorm:"not null" json:"to"`
	TotalUnits        float64   `gorm:"type:decimal(10,2);not null" json:"total_units"`
	UnitCost          float64   `gorm:"type:decimal(10,2);not null" json:"unit_cost"`
	AdditionalCharges float64   `gorm:"type:decimal(10,2);not null" json:"additional_charges"`
	NetAmount         float64   `gorm:"type:decimal(10,2);not null" json:"net_amount"`
	IsPaid            bool      `gorm:"not null;default:false" json:"is_paid"`
	Payment           float64   `gorm:"type:decimal(10,2);not null;default:0" json:"payment"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}
