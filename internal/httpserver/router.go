package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/mbelyaev/taskboard/internal/middleware/auth"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	TaskHandler      *TaskHTTP
	TaskTableHandler *TaskTableHTTP
	AuthMW           *mwauth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh, d.AuthMW.RequireRefresh)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)

	auth.POST("/logout", d.AuthHandler.LogOut, d.AuthMW.RequireAuth)
	auth.GET("/profile", d.AuthHandler.Profile, d.AuthMW.RequireAuth)
	auth.POST("/change-password", d.AuthHandler.ChangePassword, d.AuthMW.RequireAuth)
	auth.POST("/assign-role", d.AuthHandler.AssignRole, d.AuthMW.RequireAuth, d.AuthMW.RequireRoles("admin"))

	tasks := v1.Group("/tasks", d.AuthMW.RequireAuth)
	tasks.GET("/search", d.TaskHandler.SearchTasks)
	tasks.GET("", d.TaskHandler.GetTasks)
	tasks.GET("/:id", d.TaskHandler.GetTask)
	tasks.POST("", d.TaskHandler.CreateTask)
	tasks.PATCH("/:id", d.TaskHandler.PatchTask)
	tasks.DELETE("/:id", d.TaskHandler.DeleteTask)

	tables := v1.Group("/task-tables", d.AuthMW.RequireAuth)
	tables.GET("", d.TaskTableHandler.GetTaskTables)
	tables.GET("/:id", d.TaskTableHandler.GetTaskTable)
	tables.POST("", d.TaskTableHandler.CreateTaskTable)
	tables.PATCH("/:id", d.TaskTableHandler.PatchTaskTable)
	tables.DELETE("/:id", d.TaskTableHandler.DeleteTaskTable)
}
