package services

import (
	"testing"
	"time"

	"github.com/messhub/mess-app/models"
	"github.com/stretchr/testify/assert"
)

func TestIsOpenForSelection(t *testing.T) {
	closing := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	meal := models.Meal{ClosingTime: closing}

	assert.True(t, IsOpenForSelection(meal, closing.Add(-time.Second)))
	assert.False(t, IsOpenForSelection(meal, closing))
	assert.False(t, IsOpenForSelection(meal, closing.Add(time.Second)))
}

func TestCurrentAndPreviousMeals(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealWindowService(db)

	mess := seedMess(t, db, "window-mess")
	user := seedUser(t, db, mess.ID, "window-member", models.RoleUser)
	mealType := seedMealType(t, db, mess.ID, "Breakfast")

	now := time.Now()
	ended := seedMeal(t, db, mess.ID, mealType.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), nil)
	soon := seedMeal(t, db, mess.ID, mealType.ID, now.Add(30*time.Minute), now.Add(time.Hour), nil)
	later := seedMeal(t, db, mess.ID, mealType.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), nil)

	seedSelection(t, db, user.ID, soon.ID, mess.ID, []models.UserMealItem{
		{ItemID: 1, Name: "Idli", Units: 1, Quantity: 2},
	})

	current, err := svc.CurrentMeals(mess.ID, now)
	assert.NoError(t, err)
	assert.Len(t, current, 2)
	// Soonest serving window first, each with its selection count.
	assert.Equal(t, soon.ID, current[0].ID)
	assert.Equal(t, int64(1), current[0].TotalUsers)
	assert.Equal(t, later.ID, current[1].ID)
	assert.Equal(t, int64(0), current[1].TotalUsers)

	previous, totalPages, err := svc.PreviousMeals(mess.ID, now, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, previous, 1)
	assert.Equal(t, ended.ID, previous[0].ID)
	assert.Equal(t, int64(1), totalPages)

	// Past the last page comes back empty but keeps the page count.
	previous, totalPages, err = svc.PreviousMeals(mess.ID, now, 5, 10)
	assert.NoError(t, err)
	assert.Empty(t, previous)
	assert.Equal(t, int64(1), totalPages)
}
