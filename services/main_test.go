package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/messhub/mess-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database, one per test so state never
// leaks between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Mess{},
		&models.User{},
		&models.Item{},
		&models.MealType{},
		&models.Meal{},
		&models.MealItem{},
		&models.UserMeal{},
		&models.UserMealItem{},
		&models.Menu{},
		&models.MenuItem{},
		&models.Bill{},
		&models.Balance{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedMess(t *testing.T, db *gorm.DB, name string) models.Mess {
	t.Helper()
	mess := models.Mess{Name: name}
	if err := db.Create(&mess).Error; err != nil {
		t.Fatalf("seed mess: %v", err)
	}
	return mess
}

func seedUser(t *testing.T, db *gorm.DB, messID uint, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Contact:  "0800000000",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
		MessID:   messID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedMealType(t *testing.T, db *gorm.DB, messID uint, label string) models.MealType {
	t.Helper()
	mt := models.MealType{Label: label, MessID: messID}
	if err := db.Create(&mt).Error; err != nil {
		t.Fatalf("seed meal type: %v", err)
	}
	return mt
}

// seedMeal creates a meal closing and ending at the given instants, offering
// the provided item snapshots.
func seedMeal(t *testing.T, db *gorm.DB, messID, mealTypeID uint, closing, until time.Time, items []models.MealItem) models.Meal {
	t.Helper()
	meal := models.Meal{
		MealTypeID:  mealTypeID,
		MessID:      messID,
		ValidFrom:   closing.Add(-2 * time.Hour),
		ValidUntil:  until,
		ClosingTime: closing,
		Items:       items,
	}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	return meal
}

// seedSelection inserts a submitted selection directly, bypassing the
// service, for tests that only need rows to aggregate.
func seedSelection(t *testing.T, db *gorm.DB, userID, mealID, messID uint, items []models.UserMealItem) models.UserMeal {
	t.Helper()
	sel := models.UserMeal{
		UserID: userID,
		MealID: mealID,
		MessID: messID,
		Items:  items,
	}
	if err := db.Create(&sel).Error; err != nil {
		t.Fatalf("seed selection: %v", err)
	}
	return sel
}
