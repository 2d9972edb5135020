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

func TestCreateMealValidation(t *testing.T) {
	db := setupTestDB(t)
	mess := createMess(t, db, "Hostel MealVal")
	secretary := createUser(t, db, mess.ID, "mealval-sec", "secretary")

	mealType := models.MealType{Label: "Breakfast", MessID: mess.ID}
	assert.NoError(t, db.Create(&mealType).Error)
	item := models.Item{Name: "Idli", Units: 1, MessID: mess.ID}
	assert.NoError(t, db.Create(&item).Error)

	mealCtrl := controllers.NewMealController(db)
	router := newTestEngine()
	router.POST("/meals", authAs(secretary.ID, secretary.Role, mess.ID), mealCtrl.CreateMeal)

	now := time.Now()

	// Closing time after the serving window is refused.
	w, _ := doJSON(t, router, "POST", "/meals", map[string]interface{}{
		"meal_type_id": mealType.ID,
		"valid_from":   now.Format(time.RFC3339),
		"valid_until":  now.Add(time.Hour).Format(time.RFC3339),
		"closing_time": now.Add(2 * time.Hour).Format(time.RFC3339),
		"items":        []map[string]interface{}{{"item_id": item.ID}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Items outside the mess catalog are refused.
	w, _ = doJSON(t, router, "POST", "/meals", map[string]interface{}{
		"meal_type_id": mealType.ID,
		"valid_from":   now.Format(time.RFC3339),
		"valid_until":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"closing_time": now.Add(time.Hour).Format(time.RFC3339),
		"items":        []map[string]interface{}{{"item_id": 999}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A valid meal snapshots name and units from the catalog.
	w, resp := doJSON(t, router, "POST", "/meals", map[string]interface{}{
		"meal_type_id": mealType.ID,
		"valid_from":   now.Format(time.RFC3339),
		"valid_until":  now.Add(2 * time.Hour).Format(time.RFC3339),
		"closing_time": now.Add(time.Hour).Format(time.RFC3339),
		"items":        []map[string]interface{}{{"item_id": item.ID}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Idli", items[0].(map[string]interface{})["name"])
}

func TestCurrentAndPreviousMealListing(t *testing.T) {
	db := setupTestDB(t)
	mess := createMess(t, db, "Hostel MealList")
	member := createUser(t, db, mess.ID, "meallist-member", "user")

	mealType := models.MealType{Label: "Lunch", MessID: mess.ID}
	assert.NoError(t, db.Create(&mealType).Error)

	now := time.Now()
	past := models.Meal{
		MealTypeID: mealType.ID, MessID: mess.ID,
		ValidFrom: now.Add(-4 * time.Hour), ValidUntil: now.Add(-2 * time.Hour),
		ClosingTime: now.Add(-3 * time.Hour),
	}
	upcoming := models.Meal{
		MealTypeID: mealType.ID, MessID: mess.ID,
		ValidFrom: now, ValidUntil: now.Add(2 * time.Hour),
		ClosingTime: now.Add(time.Hour),
	}
	assert.NoError(t, db.Create(&past).Error)
	assert.NoError(t, db.Create(&upcoming).Error)

	mealCtrl := controllers.NewMealController(db)
	router := newTestEngine()
	asMember := authAs(member.ID, member.Role, mess.ID)
	router.GET("/meals/current", asMember, mealCtrl.GetCurrentMeals)
	router.GET("/meals/previous", asMember, mealCtrl.GetPreviousMeals)
	router.GET("/meals/:meal_id", asMember, mealCtrl.GetMeal)

	w, resp := doJSON(t, router, "GET", "/meals/current", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	current := resp["data"].([]interface{})
	assert.Len(t, current, 1)
	assert.Equal(t, float64(upcoming.ID), current[0].(map[string]interface{})["id"])

	w, resp = doJSON(t, router, "GET", "/meals/previous", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	previous := resp["data"].(map[string]interface{})["meals"].([]interface{})
	assert.Len(t, previous, 1)
	assert.Equal(t, float64(past.ID), previous[0].(map[string]interface{})["id"])

	// Detail carries the open/closed verdict.
	w, resp = doJSON(t, router, "GET", fmt.Sprintf("/meals/%d", upcoming.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["data"].(map[string]interface{})["is_open"])

	w, resp = doJSON(t, router, "GET", fmt.Sprintf("/meals/%d", past.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["data"].(map[string]interface{})["is_open"])
}
