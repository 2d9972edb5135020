package router

import (
	"github.com/gin-gonic/gin"
	"github.com/messhub/mess-app/controllers"
	"github.com/messhub/mess-app/middlewares"
	"github.com/messhub/mess-app/models"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	messCtrl := controllers.NewMessController(db)
	itemCtrl := controllers.NewItemController(db)
	mealTypeCtrl := controllers.NewMealTypeController(db)
	mealCtrl := controllers.NewMealController(db)
	userMealCtrl := controllers.NewUserMealController(db)
	billCtrl := controllers.NewBillController(db)
	balanceCtrl := controllers.NewBalanceController(db)
	menuCtrl := controllers.NewMenuController(db)
	reviewCtrl := controllers.NewReviewController(db)
	statsCtrl := controllers.NewStatsController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := v1.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
		public.POST("/reset-password-request", userCtrl.ResetPasswordRequest)
		public.POST("/reset-password", userCtrl.ResetPassword)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := v1.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/auth/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// USERS (admin manages accounts, secretary may list their mess)
	users := auth.Group("/users")
	{
		users.POST("", middlewares.Permit(models.RoleAdmin), userCtrl.Register)
		users.GET("", middlewares.Permit(models.RoleAdmin, models.RoleSecretary, models.RoleStaff, models.RoleCashier), userCtrl.GetAllUsers)
		users.GET("/:user_id", middlewares.Permit(models.RoleAdmin, models.RoleSecretary, models.RoleStaff, models.RoleCashier), userCtrl.GetUser)
		users.PATCH("/:user_id", middlewares.Permit(models.RoleAdmin), userCtrl.UpdateUser)
		users.DELETE("/:user_id", middlewares.Permit(models.RoleAdmin), userCtrl.DeleteUser)
	}

	// MESSES (admin only)
	messes := auth.Group("/messes", middlewares.Permit(models.RoleAdmin))
	{
		messes.POST("", messCtrl.CreateMess)
		messes.GET("", messCtrl.GetAllMesses)
		messes.GET("/:mess_id", messCtrl.GetMess)
		messes.PATCH("/:mess_id", messCtrl.UpdateMess)
		messes.DELETE("/:mess_id", messCtrl.DeleteMess)
	}

	// ITEM CATALOG (secretary curates, everyone in the mess reads)
	auth.GET("/items", itemCtrl.GetAllItems)
	auth.GET("/items/:item_id", itemCtrl.GetItem)
	items := auth.Group("/items", middlewares.Permit(models.RoleAdmin, models.RoleSecretary))
	{
		items.POST("", itemCtrl.CreateItem)
		items.PATCH("/:item_id", itemCtrl.UpdateItem)
		items.DELETE("/:item_id", itemCtrl.DeleteItem)
	}

	// MEAL TYPES
	auth.GET("/meal-types", mealTypeCtrl.GetAllMealTypes)
	mealTypes := auth.Group("/meal-types", middlewares.Permit(models.RoleAdmin, models.RoleSecretary, models.RoleStaff))
	{
		mealTypes.POST("", mealTypeCtrl.CreateMealType)
		mealTypes.PATCH("/:type_id", mealTypeCtrl.UpdateMealType)
		mealTypes.DELETE("/:type_id", mealTypeCtrl.DeleteMealType)
	}

	// MEALS (secretary announces, everyone reads)
	auth.GET("/meals/current", mealCtrl.GetCurrentMeals)
	auth.GET("/meals/previous", mealCtrl.GetPreviousMeals)
	auth.GET("/meals/:meal_id", mealCtrl.GetMeal)
	meals := auth.Group("/meals", middlewares.Permit(models.RoleAdmin, models.RoleSecretary, models.RoleStaff))
	{
		meals.POST("", mealCtrl.CreateMeal)
		meals.PATCH("/:meal_id", mealCtrl.UpdateMeal)
		meals.DELETE("/:meal_id", mealCtrl.DeleteMeal)
	}

	// SELECTIONS
	auth.POST("/meals/:meal_id/selections", userMealCtrl.SubmitMeal)
	auth.GET("/meals/:meal_id/selections",
		middlewares.Permit(models.RoleAdmin, models.RoleSecretary, models.RoleStaff),
		userMealCtrl.GetMealSelections)
	auth.PATCH("/selections/:user_meal_id",
		middlewares.Permit(models.RoleAdmin, models.RoleStaff),
		userMealCtrl.AmendSelection)
	auth.GET("/me/meals", userMealCtrl.GetMyMeals)

	// REVIEWS
	auth.POST("/reviews", reviewCtrl.CreateReview)
	auth.GET("/meals/:meal_id/reviews", reviewCtrl.GetMealReviews)

	// BILLS (cashier runs billing and settles, everyone reads their own)
	auth.GET("/bills", billCtrl.GetBills)
	auth.GET("/bills/:bill_id", billCtrl.GetBill)
	bills := auth.Group("/bills", middlewares.Permit(models.RoleAdmin, models.RoleCashier))
	{
		bills.POST("/generate", billCtrl.GenerateBills)
		bills.PATCH("/:bill_id/settle", billCtrl.SettleBill)
	}

	// BALANCES
	auth.GET("/balance", balanceCtrl.GetBalance)
	auth.GET("/balances/:user_id",
		middlewares.Permit(models.RoleAdmin, models.RoleCashier),
		balanceCtrl.GetBalance)

	// WEEKLY MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	menus := auth.Group("/menus", middlewares.Permit(models.RoleAdmin, models.RoleSecretary))
	{
		menus.POST("", menuCtrl.CreateMenu)
		menus.PATCH("/:menu_id", menuCtrl.UpdateMenu)
		menus.DELETE("/:menu_id", menuCtrl.DeleteMenu)
	}

	// DASHBOARDS
	stats := auth.Group("/stats")
	{
		stats.GET("/user", statsCtrl.GetUserStats)
		stats.GET("/secretary", middlewares.Permit(models.RoleAdmin, models.RoleSecretary), statsCtrl.GetSecretaryStats)
		stats.GET("/cashier", middlewares.Permit(models.RoleAdmin, models.RoleCashier), statsCtrl.GetCashierStats)
		stats.GET("/admin", middlewares.Permit(models.RoleAdmin), statsCtrl.GetAdminStats)
	}

	// Live board over websocket, token travels as a query param.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/board", controllers.BoardHandler)
	}

	return r
}
