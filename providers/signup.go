package providers

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/invitehub/invitation-server/config"
	"github.com/invitehub/invitation-server/invitations"
)

const signedUpChannel = "auth.signed_up"

type signupMessage struct {
	Email      string `json:"email"`
	RemoteAddr string `json:"remote_addr"`
}

// RegisterSignupListener subscribes the signup completion hook to the
// auth.signed_up channel. In non-deferred mode the hook stays unregistered
// and acceptance happens inline on the accept endpoint.
func RegisterSignupListener(lc fx.Lifecycle, cfg *config.Config, hook *invitations.SignupHook, client *redis.Client) {
	if !cfg.InvitationConfig.AcceptInviteAfterSignup {
		return
	}

	var sub *redis.PubSub

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sub = client.Subscribe(ctx, signedUpChannel)

			go func() {
				for msg := range sub.Channel() {
					message := new(signupMessage)
					if err := json.Unmarshal([]byte(msg.Payload), message); err != nil {
						log.Error().Err(err).Msg("Could not decode signup message")
						continue
					}

					if err := hook.OnSignupCompleted(context.Background(), message.Email, message.RemoteAddr); err != nil {
						log.Error().Err(err).Str("email", message.Email).Msg("Could not accept invitation after signup")
					}
				}
			}()

			log.Info().Msg("Registered signup completion hook")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sub.Close()
		},
	})
}
