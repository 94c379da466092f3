package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/controllers"
	"github.com/nqanh/vku-student-manager/internal/middleware"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/nqanh/vku-student-manager/internal/pkg/roster"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	chatController *controllers.ChatController,
	rosterHandler *roster.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", authController.LoginAdmin)
		authGroup.POST("/students/login", authController.LoginStudent)
		authGroup.POST("/students/register", authController.Register)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/chat", chatController.Send)

		// Self-service profile routes for students
		me := authenticated.Group("/students/me")
		me.Use(authMiddleware.RoleRequired(auth.RoleStudent))
		{
			me.GET("", studentController.GetProfile)
			me.PUT("", studentController.UpdateProfile)
		}

		// Admin-only student management
		students := authenticated.Group("/students")
		students.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
		{
			students.GET("", studentController.List)
			students.POST("", studentController.Create)
			students.GET("/watch", rosterHandler.HandleConnection)
			students.GET("/:id", studentController.GetByID)
			students.PUT("/:id", studentController.Update)
			students.DELETE("/:id", studentController.Delete)
		}
	}
}
