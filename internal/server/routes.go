package server

import (
	"taskapi/internal/handler"
	"taskapi/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Tasks  *handler.TaskHandler
	Users  *handler.UserHandler
	Health *handler.HealthHandler
}

// Routes installs the middleware chain and every route on r.
func Routes(r *gin.Engine, h Handlers) {
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.CustomRecovery(handler.Recover))

	r.GET("/health", h.Health.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("", h.Health.Home)

		// Task routes
		api.GET("/tasks", h.Tasks.List)
		api.POST("/tasks", h.Tasks.Create)
		api.GET("/tasks/:id", h.Tasks.GetByID)
		api.PUT("/tasks/:id", h.Tasks.Update)
		api.DELETE("/tasks/:id", h.Tasks.Delete)

		// User routes
		api.GET("/users", h.Users.List)
		api.POST("/users", h.Users.Create)
		api.GET("/users/:id", h.Users.GetByID)
		api.PUT("/users/:id", h.Users.Update)
		api.DELETE("/users/:id", h.Users.Delete)
	}
}
