package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/invitehub/invitation-server/config"
	"github.com/invitehub/invitation-server/controllers"
	"github.com/invitehub/invitation-server/http"
	"github.com/invitehub/invitation-server/invitations"
	"github.com/invitehub/invitation-server/providers"
	"github.com/invitehub/invitation-server/repos"
	"github.com/invitehub/invitation-server/utils"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(config.Parse),
		fx.Invoke(func(config *config.Config) {
			utils.InitSharedConstants(*config.JwtParsedPublicKey)
		}),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(config.ProvideSmtp),
		fx.Provide(config.ProvideRedis),
		fx.Provide(http.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Provide(repos.NewInvitationRepo),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(providers.NewRedisEvents),
		fx.Provide(providers.NewSmtpMailer),
		fx.Provide(func(r *repos.InvitationRepo) invitations.Store { return r }),
		fx.Provide(func(r *repos.UserRepo) invitations.UserDirectory { return r }),
		fx.Provide(func(p *providers.RedisEvents) invitations.Publisher { return p }),
		fx.Provide(func(cfg *config.Config) invitations.Settings { return cfg.InvitationSettings() }),
		fx.Provide(invitations.NewIssuer),
		fx.Provide(invitations.NewAcceptor),
		fx.Provide(invitations.NewSignupHook),
		fx.Invoke(controllers.RegisterInvitationController),
		fx.Invoke(providers.RegisterSignupListener),
	}
}

func run(app *fiber.App, config *config.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}
