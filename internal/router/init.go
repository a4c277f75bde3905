package router

import (
	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/internal/container"
	pginfra "github.com/taskhive/taskhive/internal/infrastructure/postgres"
	handlers "github.com/taskhive/taskhive/internal/interface/http"
	"github.com/taskhive/taskhive/internal/router/modules"
)

// InitModules wires repositories, services, and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	authSvc := application.NewAuthService(
		pginfra.NewUserRepository(pool),
		container.GetJWT(),
		container.GetRedis(),
		cfg.UserCacheTTL,
		logger,
	)

	// The publisher is optional; a nil *RabbitPublisher must not end up
	// inside the EventPublisher interface.
	var pub application.EventPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	taskSvc := application.NewTaskService(
		pginfra.NewTaskRepository(pool),
		pub,
		container.GetES(),
		cfg.ESTasksIndex,
		logger,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT(), authSvc))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), container.GetJWT(), authSvc))
	r.Add(modules.NewHealthModule(pool, container.GetRedis()))
}
