package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/messhub/mess-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingService turns selections into consumption units, units into bills,
// and settlements into balance ledger updates.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

// AggregateUnits folds selections into total consumption units per user:
// the sum of unit weight times quantity over every selected item. A pure
// function over its input, so re-running it over the same rows always yields
// the same totals.
func AggregateUnits(selections []models.UserMeal) map[uint]float64 {
	totals := make(map[uint]float64)
	for _, sel := range selections {
		for _, item := range sel.Items {
			totals[sel.UserID] += item.Units * float64(item.Quantity)
		}
	}
	return totals
}

// ConsumptionInRange aggregates units per user over selections created in
// [from, to] within one mess.
func (s *BillingService) ConsumptionInRange(messID uint, from, to time.Time) (map[uint]float64, error) {
	var selections []models.UserMeal
	err := s.DB.Preload("Items").
		Where("mess_id = ? AND created_at >= ? AND created_at <= ?", messID, from, to).
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return AggregateUnits(selections), nil
}

// UserConsumption is the single-user variant of ConsumptionInRange.
func (s *BillingService) UserConsumption(userID, messID uint, from, to time.Time) (float64, error) {
	var selections []models.UserMeal
	err := s.DB.Preload("Items").
		Where("user_id = ? AND mess_id = ? AND created_at >= ? AND created_at <= ?", userID, messID, from, to).
		Find(&selections).Error
	if err != nil {
		return 0, err
	}
	return AggregateUnits(selections)[userID], nil
}

// GenerateBills runs a billing period for a mess: one bill per user with
// consumption in [from, to], netAmount = totalUnits*unitCost +
// additionalCharges. The run is all-or-nothing; a failed insert rolls back
// every bill of the run.
func (s *BillingService) GenerateBills(messID, cashierID uint, from, to time.Time, unitCost, additionalCharges float64) ([]models.Bill, error) {
	if from.IsZero() || to.IsZero() {
		return nil, &ValidationError{Message: "please provide required fields"}
	}
	if !from.Before(to) {
		return nil, &ValidationError{Message: "invalid billing period"}
	}
	if unitCost < 0 {
		return nil, &ValidationError{Message: "invalid unit cost"}
	}

	totals, err := s.ConsumptionInRange(messID, from, to)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(totals))
	for userID, units := range totals {
		if units > 0 {
			userIDs = append(userIDs, userID)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	bills := make([]models.Bill, 0, len(userIDs))
	for _, userID := range userIDs {
		units := totals[userID]
		bills = append(bills, models.Bill{
			Reference:         uuid.New().String(),
			MessID:            messID,
			UserID:            userID,
			CashierID:         cashierID,
			From:              from,
			To:                to,
			TotalUnits:        units,
			UnitCost:          unitCost,
			AdditionalCharges: additionalCharges,
			NetAmount:         units*unitCost + additionalCharges,
			IsPaid:            false,
			Payment:           0,
		})
	}
	if len(bills) == 0 {
		return bills, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&bills).Error
	})
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// SettleBill records a payment against a bill and moves the user's balance
// by payment - netAmount. The balance write is a server-side increment, not
// a read-modify-write, so concurrent settlements for the same user cannot
// lose updates. The row is created lazily on first settlement.
func (s *BillingService) SettleBill(messID, billID uint, payment float64, isPaid bool) (*models.Bill, error) {
	if payment <= 0 {
		return nil, &ValidationError{Message: "please provide payment"}
	}
	if !isPaid {
		return nil, &ValidationError{Message: "mark bill paid to record payment"}
	}

	var bill models.Bill
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND mess_id = ?", billID, messID).
			First(&bill).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Message: "bill not found"}
			}
			return err
		}

		if err := tx.Model(&bill).Updates(map[string]interface{}{
			"payment": payment,
			"is_paid": isPaid,
		}).Error; err != nil {
			return err
		}

		delta := payment - bill.NetAmount
		balance := models.Balance{UserID: bill.UserID, Balance: delta}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance": gorm.Expr("balance + ?", delta),
			}),
		}).Create(&balance).Error
	})
	if err != nil {
		return nil, err
	}

	bill.Payment = payment
	bill.IsPaid = isPaid
	return &bill, nil
}

// UserBalance returns the running balance, zero when the user has never
// settled a bill.
func (s *BillingService) UserBalance(userID uint) (float64, error) {
	var balance models.Balance
	err := s.DB.Where("user_id = ?", userID).First(&balance).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Balance, nil
}
