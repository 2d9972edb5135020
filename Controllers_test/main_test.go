package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
)

// setupTestDB opens an in-memory SQLite database, unique per test so no state
// leaks across tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
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

// authAs injects the claims the auth middleware would set after verifying a
// token, so handlers can be exercised without minting JWTs per request.
func authAs(userID uint, role string, messID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, userID)
		c.Set(middlewares.CtxRole, role)
		c.Set(middlewares.CtxMessID, messID)
		c.Next()
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// doJSON performs a request with an optional JSON body and decodes the
// response envelope.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, parsed
}

func createMess(t *testing.T, db *gorm.DB, name string) models.Mess {
	t.Helper()
	mess := models.Mess{Name: name}
	if err := db.Create(&mess).Error; err != nil {
		t.Fatalf("create mess: %v", err)
	}
	return mess
}

func createUser(t *testing.T, db *gorm.DB, messID uint, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Contact:  "0800000000",
		Password: "unused",
		Role:     role,
		IsActive: true,
		MessID:   messID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
