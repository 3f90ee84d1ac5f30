package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/christian6134/byte-buddy/controllers"
	"github.com/christian6134/byte-buddy/middlewares"
	"github.com/christian6134/byte-buddy/services"
)

type Deps struct {
	Sessions    *services.SessionManager
	Nutritionix *services.NutritionixService
	Hub         *services.RealtimeHub
	Push        *services.PushService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	authCtrl := controllers.NewAuthController(deps.Sessions)
	foodCtrl := controllers.NewFoodController(deps.Sessions)
	mealCtrl := controllers.NewMealController(deps.Sessions)
	goalCtrl := controllers.NewGoalController(deps.Sessions)
	searchCtrl := controllers.NewSearchController(deps.Nutritionix, deps.Sessions)
	realtimeCtrl := controllers.NewRealtimeController(deps.Hub, deps.Sessions)
	deviceCtrl := controllers.NewDeviceController(deps.Push)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/auth/logout", authCtrl.Logout)

		api.GET("/foods", foodCtrl.List)
		api.POST("/foods", foodCtrl.Add)
		api.PUT("/foods/:id", foodCtrl.Update)
		api.DELETE("/foods/:id", foodCtrl.Delete)

		api.POST("/meals", mealCtrl.Add)
		api.GET("/meals", mealCtrl.List)
		api.GET("/meals/totals", mealCtrl.DailyTotals)
		api.DELETE("/meals/:id", mealCtrl.Delete)

		api.GET("/goals", goalCtrl.Get)
		api.PUT("/goals", goalCtrl.UpdateGoals)
		api.PUT("/goals/reminder", goalCtrl.UpdateReminder)

		api.GET("/food/search", searchCtrl.Search)
		api.POST("/food/search/commit", searchCtrl.Commit)

		api.GET("/realtime/ws", realtimeCtrl.StreamWS)
		api.POST("/devices", deviceCtrl.Register)
		api.POST("/notifications/toggle", controllers.ToggleNotifications)
	}

	return r
}
