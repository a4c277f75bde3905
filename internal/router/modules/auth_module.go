package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/application"
	handlers "github.com/taskhive/taskhive/internal/interface/http"
	"github.com/taskhive/taskhive/internal/interface/middleware"
	"github.com/taskhive/taskhive/pkg/helpers"
)

// AuthModule wires the registration/login endpoints and the authenticated
// profile lookup.
// Public: POST /auth/register, POST /auth/login
// Protected: GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Auth    *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, auth *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)

	authed := rg.Group("/")
	authed.Use(middleware.BearerAuth(m.JWT, m.Auth))
	{
		authed.GET("/auth/me", m.Handler.Me)
	}
}
