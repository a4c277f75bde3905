package router

import "github.com/gin-gonic/gin"

// Module is a route bundle (auth, tasks, health) that mounts itself on the
// root router group. Modules own their own middleware, so protected groups
// attach the bearer gateway themselves.
type Module interface {
	Register(rg *gin.RouterGroup)
}
