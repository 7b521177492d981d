package routes

import (
	"pianopay/controllers"
	middlewares "pianopay/middleware"
	"pianopay/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, manager *services.SessionManager) {

	sessionController := controllers.NewSessionController(manager)

	v1 := router.Group("/api/v1")
	v1.Use(middlewares.SessionMiddleware())

	v1.GET("/price", controllers.GetPrice)

	sessions := v1.Group("/sessions", middlewares.AuthMiddleware())
	sessions.POST("/:kind/:subjectId/open", sessionController.OpenSession)
	sessions.GET("/:kind/:subjectId", sessionController.GetSession)
	sessions.POST("/:kind/:subjectId/confirm", sessionController.ConfirmOrder)
	sessions.POST("/:kind/:subjectId/cancel", sessionController.CancelOrder)
	sessions.POST("/:kind/:subjectId/reset", sessionController.ResetSession)
	sessions.DELETE("/:kind/:subjectId", sessionController.CloseSession)
	sessions.GET("/:kind/:subjectId/qr.png", sessionController.GetQRImage)
}
