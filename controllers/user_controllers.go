package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates an account inside a mess. Admin only; members do not
// self-register.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required,min=4,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Contact  string `json:"contact" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required,oneof=admin secretary staff cashier user"`
		MessID   uint   `json:"mess_id" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var mess models.Mess
	if err := uc.DB.First(&mess, req.MessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
		return
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Contact:  req.Contact,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
		MessID:   req.MessID,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s, mess=%d)", user.Email, user.Role, user.MessID)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login -> returns a JWT carrying user, role and mess.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("account is deactivated"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, user.MessID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
		"mess_id":   user.MessID,
	})
}

// Logout blacklists the presented token until its natural expiry.
func (uc *UserController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("token not provided"))
		return
	}

	utils.BlacklistToken(tokenString)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint(middlewares.CtxUserID)

	var user models.User
	if err := uc.DB.Preload("Mess").First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"contact": user.Contact,
		"role":    user.Role,
		"mess":    user.Mess.Name,
		"mess_id": user.MessID,
	})
}

// GetAllUsers -> admin sees everyone, other staff roles see their own mess.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := uc.DB.Model(&models.User{})
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("user_id"))
	role := c.GetString(middlewares.CtxRole)
	messID := c.GetUint(middlewares.CtxMessID)

	q := uc.DB.Model(&models.User{}).Where("id = ?", id)
	if role != models.RoleAdmin {
		q = q.Where("mess_id = ?", messID)
	}

	var user models.User
	if err := q.First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var body struct {
		Name     string `json:"name"`
		Contact  string `json:"contact"`
		Role     string `json:"role"`
		IsActive *bool  `json:"is_active"`
		MessID   uint   `json:"mess_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Contact != "" {
		updates["contact"] = body.Contact
	}
	if body.Role != "" {
		updates["role"] = body.Role
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if body.MessID != 0 {
		var mess models.Mess
		if err := uc.DB.First(&mess, body.MessID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("mess not found"))
			return
		}
		updates["mess_id"] = body.MessID
	}

	if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User updated successfully", nil)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User deleted successfully", nil)
}

// ResetPasswordRequest issues a short-lived reset token for the account.
// Mail delivery is not this service's job; the token goes back to the caller
// and the account owner receives it out of band.
func (uc *UserController) ResetPasswordRequest(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	token, err := utils.GenerateResetToken(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Password reset requested for %s", user.Email)
	utils.RespondJSON(c, http.StatusOK, "Reset token issued", gin.H{
		"reset_token": token,
	})
}

func (uc *UserController) ResetPassword(c *gin.Context) {
	var body struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if utils.IsTokenBlacklisted(body.Token) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid or expired token"))
		return
	}

	claims, err := utils.ParseResetToken(body.Token)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	res := uc.DB.Model(&models.User{}).
		Where("id = ?", claims.UserID).
		UpdateColumn("password", string(hashed))
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	// A used reset token must not work twice.
	utils.BlacklistToken(body.Token)
	utils.RespondJSON(c, http.StatusOK, "Password updated successfully", nil)
}
