package router

import (
	app "github.com/betaware/betaware-api/internal/application"
	"github.com/betaware/betaware-api/internal/container"
	pginfra "github.com/betaware/betaware-api/internal/infrastructure/postgres"
	handlers "github.com/betaware/betaware-api/internal/interface/http"
	"github.com/betaware/betaware-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	users := pginfra.NewUserRepository(container.GetPGPool())
	wagers := pginfra.NewWagerRepository(container.GetPGPool())

	authSvc := app.NewAuthService(
		users,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetConfig().MailSendEnabled,
	)
	wagerSvc := app.NewWagerService(
		wagers,
		users,
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESWagersIndex,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, container.GetLogger())))
	r.Add(modules.NewWagerModule(handlers.NewWagerHandler(wagerSvc, container.GetLogger()), container.GetJWT()))
}
