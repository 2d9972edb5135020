package services

import (
	"testing"
	"time"

	"github.com/messhub/mess-app/models"
	"github.com/stretchr/testify/assert"
)

func TestAggregateUnits(t *testing.T) {
	selections := []models.UserMeal{
		{
			UserID: 1,
			Items: []models.UserMealItem{
				{Units: 1.5, Quantity: 2},
				{Units: 0.5, Quantity: 1},
			},
		},
		{
			UserID: 2,
			Items: []models.UserMealItem{
				{Units: 2, Quantity: 3},
			},
		},
		{
			UserID: 1,
			Items: []models.UserMealItem{
				{Units: 1, Quantity: 1},
			},
		},
	}

	totals := AggregateUnits(selections)
	assert.Len(t, totals, 2)
	assert.InDelta(t, 4.5, totals[1], 1e-9)
	assert.InDelta(t, 6.0, totals[2], 1e-9)

	// Same input, same output.
	again := AggregateUnits(selections)
	assert.Equal(t, totals, again)

	assert.Empty(t, AggregateUnits(nil))
}

func TestGenerateBills(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)

	mess := seedMess(t, db, "north-mess")
	cashier := seedUser(t, db, mess.ID, "cashier-north", models.RoleCashier)
	alice := seedUser(t, db, mess.ID, "alice", models.RoleUser)
	bob := seedUser(t, db, mess.ID, "bob", models.RoleUser)
	outsider := seedUser(t, db, mess.ID, "carol", models.RoleUser)

	mealType := seedMealType(t, db, mess.ID, "Lunch")
	now := time.Now()
	meal := seedMeal(t, db, mess.ID, mealType.ID, now.Add(-time.Hour), now.Add(time.Hour), []models.MealItem{
		{ItemID: 1, Name: "Rice", Units: 1},
	})

	// alice: 1.5*2 + 0.5*1 = 3.5 units, bob: 2*1 = 2 units.
	seedSelection(t, db, alice.ID, meal.ID, mess.ID, []models.UserMealItem{
		{ItemID: 1, Name: "Rice", Units: 1.5, Quantity: 2},
		{ItemID: 2, Name: "Dal", Units: 0.5, Quantity: 1},
	})
	seedSelection(t, db, bob.ID, meal.ID, mess.ID, []models.UserMealItem{
		{ItemID: 1, Name: "Rice", Units: 2, Quantity: 1},
	})

	from := now.Add(-24 * time.Hour)
	to := now.Add(time.Minute)

	bills, err := svc.GenerateBills(mess.ID, cashier.ID, from, to, 10, 5)
	assert.NoError(t, err)
	assert.Len(t, bills, 2)

	// One bill per consuming user, sorted by user id, amounts recomputed
	// from the inputs.
	assert.Equal(t, alice.ID, bills[0].UserID)
	assert.InDelta(t, 3.5, bills[0].TotalUnits, 1e-9)
	assert.InDelta(t, 40.0, bills[0].NetAmount, 1e-9)
	assert.Equal(t, bob.ID, bills[1].UserID)
	assert.InDelta(t, 2.0, bills[1].TotalUnits, 1e-9)
	assert.InDelta(t, 25.0, bills[1].NetAmount, 1e-9)
	assert.NotEqual(t, bills[0].Reference, bills[1].Reference)
	assert.False(t, bills[0].IsPaid)

	// carol never selected anything, no bill for her.
	var count int64
	db.Model(&models.Bill{}).Where("user_id = ?", outsider.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGenerateBillsValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)
	now := time.Now()

	_, err := svc.GenerateBills(1, 1, time.Time{}, now, 10, 0)
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.GenerateBills(1, 1, now, now, 10, 0)
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.GenerateBills(1, 1, now.Add(-time.Hour), now, -1, 0)
	assert.IsType(t, &ValidationError{}, err)
}

func TestGenerateBillsNoConsumption(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)

	mess := seedMess(t, db, "quiet-mess")
	cashier := seedUser(t, db, mess.ID, "cashier-quiet", models.RoleCashier)

	now := time.Now()
	bills, err := svc.GenerateBills(mess.ID, cashier.ID, now.Add(-time.Hour), now, 10, 0)
	assert.NoError(t, err)
	assert.Empty(t, bills)
}

func TestSettleBillMovesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)

	mess := seedMess(t, db, "east-mess")
	cashier := seedUser(t, db, mess.ID, "cashier-east", models.RoleCashier)
	user := seedUser(t, db, mess.ID, "dave", models.RoleUser)

	now := time.Now()
	first := models.Bill{
		Reference: "ref-settle-1",
		MessID:    mess.ID,
		UserID:    user.ID,
		CashierID: cashier.ID,
		From:      now.Add(-48 * time.Hour),
		To:        now.Add(-24 * time.Hour),
		NetAmount: 100,
	}
	assert.NoError(t, db.Create(&first).Error)

	// Underpay by 10: balance row is created at -10.
	settled, err := svc.SettleBill(mess.ID, first.ID, 90, true)
	assert.NoError(t, err)
	assert.True(t, settled.IsPaid)
	assert.InDelta(t, 90.0, settled.Payment, 1e-9)

	balance, err := svc.UserBalance(user.ID)
	assert.NoError(t, err)
	assert.InDelta(t, -10.0, balance, 1e-9)

	// Overpay the next bill by 20: the same row moves to +10.
	second := models.Bill{
		Reference: "ref-settle-2",
		MessID:    mess.ID,
		UserID:    user.ID,
		CashierID: cashier.ID,
		From:      now.Add(-24 * time.Hour),
		To:        now,
		NetAmount: 100,
	}
	assert.NoError(t, db.Create(&second).Error)

	_, err = svc.SettleBill(mess.ID, second.ID, 120, true)
	assert.NoError(t, err)

	balance, err = svc.UserBalance(user.ID)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, balance, 1e-9)

	var rows int64
	db.Model(&models.Balance{}).Where("user_id = ?", user.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestSettleBillValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)

	_, err := svc.SettleBill(1, 1, 0, true)
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.SettleBill(1, 1, 50, false)
	assert.IsType(t, &ValidationError{}, err)

	_, err = svc.SettleBill(1, 999, 50, true)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestUserBalanceDefaultsToZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db)

	balance, err := svc.UserBalance(42)
	assert.NoError(t, err)
	assert.Zero(t, balance)
}
