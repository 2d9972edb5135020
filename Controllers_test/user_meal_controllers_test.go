package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/messhub/mess-app/controllers"
	"github.com/messhub/mess-app/models"
)

func TestMealSelectionFlow(t *testing.T) {
	db := setupTestDB(t)
	mess := createMess(t, db, "Hostel Selections")
	secretary := createUser(t, db, mess.ID, "sel-secretary", "secretary")
	member := createUser(t, db, mess.ID, "sel-member", "user")
	staff := createUser(t, db, mess.ID, "sel-staff", "staff")

	mealType := models.MealType{Label: "Dinner", MessID: mess.ID}
	assert.NoError(t, db.Create(&mealType).Error)
	rice := models.Item{Name: "Rice", Units: 1, MessID: mess.ID}
	curry := models.Item{Name: "Curry", Units: 1.5, MessID: mess.ID}
	assert.NoError(t, db.Create(&rice).Error)
	assert.NoError(t, db.Create(&curry).Error)

	mealCtrl := controllers.NewMealController(db)
	userMealCtrl := controllers.NewUserMealController(db)

	router := newTestEngine()
	router.POST("/meals", authAs(secretary.ID, secretary.Role, mess.ID), mealCtrl.CreateMeal)
	router.POST("/meals/:meal_id/selections", authAs(member.ID, member.Role, mess.ID), userMealCtrl.SubmitMeal)
	router.GET("/meals/:meal_id/selections", authAs(staff.ID, staff.Role, mess.ID), userMealCtrl.GetMealSelections)

	now := time.Now()
	w, resp := doJSON(t, router, "POST", "/meals", map[string]interface{}{
		"meal_type_id": mealType.ID,
		"valid_from":   now.Format(time.RFC3339),
		"valid_until":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"closing_time": now.Add(time.Hour).Format(time.RFC3339),
		"items": []map[string]interface{}{
			{"item_id": rice.ID},
			{"item_id": curry.ID},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	mealID := uint(resp["data"].(map[string]interface{})["id"].(float64))
	selectionsPath := fmt.Sprintf("/meals/%d/selections", mealID)

	// Open a selection.
	w, resp = doJSON(t, router, "POST", selectionsPath, map[string]interface{}{
		"is_open": true,
		"items": []map[string]interface{}{
			{"item_id": rice.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User meal opened", resp["message"])

	// Resubmitting replaces it instead of duplicating.
	w, resp = doJSON(t, router, "POST", selectionsPath, map[string]interface{}{
		"is_open": true,
		"items": []map[string]interface{}{
			{"item_id": curry.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User meal updated", resp["message"])

	var rows int64
	db.Model(&models.UserMeal{}).Where("meal_id = ?", mealID).Count(&rows)
	assert.Equal(t, int64(1), rows)

	// Staff sees every selection with the snapshotted items.
	w, resp = doJSON(t, router, "GET", selectionsPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	selections := resp["data"].([]interface{})
	assert.Len(t, selections, 1)
	items := selections[0].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Curry", items[0].(map[string]interface{})["name"])

	// Withdraw.
	w, resp = doJSON(t, router, "POST", selectionsPath, map[string]interface{}{
		"is_open": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User meal closed", resp["message"])

	// Withdrawing again has nothing to remove.
	w, _ = doJSON(t, router, "POST", selectionsPath, map[string]interface{}{
		"is_open": false,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitSelectionAfterClosing(t *testing.T) {
	db := setupTestDB(t)
	mess := createMess(t, db, "Hostel Closed")
	member := createUser(t, db, mess.ID, "closed-member", "user")

	mealType := models.MealType{Label: "Lunch", MessID: mess.ID}
	assert.NoError(t, db.Create(&mealType).Error)

	now := time.Now()
	meal := models.Meal{
		MealTypeID:  mealType.ID,
		MessID:      mess.ID,
		ValidFrom:   now.Add(-3 * time.Hour),
		ValidUntil:  now.Add(time.Hour),
		ClosingTime: now.Add(-time.Minute),
		Items:       []models.MealItem{{ItemID: 1, Name: "Rice", Units: 1}},
	}
	assert.NoError(t, db.Create(&meal).Error)

	userMealCtrl := controllers.NewUserMealController(db)
	router := newTestEngine()
	router.POST("/meals/:meal_id/selections", authAs(member.ID, member.Role, mess.ID), userMealCtrl.SubmitMeal)

	w, resp := doJSON(t, router, "POST", fmt.Sprintf("/meals/%d/selections", meal.ID), map[string]interface{}{
		"is_open": true,
		"items": []map[string]interface{}{
			{"item_id": 1, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "meal closed", resp["message"])
}
