package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/application"
	handlers "github.com/taskhive/taskhive/internal/interface/http"
	"github.com/taskhive/taskhive/internal/interface/middleware"
	"github.com/taskhive/taskhive/pkg/helpers"
)

// TaskModule wires the owner-scoped task CRUD and search routes. Every route
// sits behind the bearer-auth gateway; handlers read the owner id from the
// gin context, never from the request.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
	Auth    *application.AuthService
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager, auth *application.AuthService) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt, Auth: auth}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.BearerAuth(m.JWT, m.Auth))
	{
		tasks.GET("/", m.Handler.List)
		tasks.POST("/", m.Handler.Create)
		tasks.GET("/search", m.Handler.Search)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
