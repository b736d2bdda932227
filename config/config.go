package config

import (
	"crypto/rsa"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"

	"github.com/invitehub/invitation-server/invitations"
	"github.com/invitehub/invitation-server/utils"
)

type Config struct {
	Port               string `env:"LISTEN_ADDR" envDefault:":3000"`
	Timeout            uint64 `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize     int    `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit          int    `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName            string `env:"APP_NAME" envDefault:"Invitations"`
	IsProduction       bool   `env:"PRODUCTION"`
	Dsn                string `env:"DSN"`
	RedisUrl           string `env:"REDIS_URL"`
	CookieKey          string `env:"COOKIE_KEY"`
	JwtPublicKey       string `env:"JWT_PUBLIC_KEY"`
	JwtParsedPublicKey *rsa.PublicKey
	PublicUrl          string           `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`
	EmailConfig        EmailConfig      `envPrefix:"EMAIL_"`
	InvitationConfig   InvitationConfig `envPrefix:"INVITE_"`
}

type EmailConfig struct {
	SmtpHost         string `env:"SMTP_HOST"`
	SmtpPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SmtpUser         string `env:"SMTP_USER"`
	SmtpPassword     string `env:"SMTP_PASSWORD"`
	SmtpSkipInsecure bool   `env:"SMTP_SKIP_INSECURE" envDefault:"false"`
}

type InvitationConfig struct {
	AllowJsonInvites         bool          `env:"ALLOW_JSON_INVITES"`
	ConfirmInviteOnGet       bool          `env:"CONFIRM_INVITE_ON_GET"`
	GoneOnAcceptError        bool          `env:"GONE_ON_ACCEPT_ERROR"`
	RequireAuthenticatedUser bool          `env:"REQUIRE_AUTHENTICATED_USER"`
	AcceptInviteAfterSignup  bool          `env:"ACCEPT_INVITE_AFTER_SIGNUP"`
	LoginRedirect            string        `env:"LOGIN_REDIRECT" envDefault:"/accounts/login"`
	SignupRedirect           string        `env:"SIGNUP_REDIRECT" envDefault:"/accounts/signup"`
	KeyExpiry                time.Duration `env:"KEY_EXPIRY" envDefault:"72h"`
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	cfg.JwtParsedPublicKey = utils.ParsePublicKey(cfg.JwtPublicKey)

	return &cfg, nil
}

func (c *Config) InvitationSettings() invitations.Settings {
	return invitations.Settings{
		RequireAuthenticatedUser: c.InvitationConfig.RequireAuthenticatedUser,
		AcceptAfterSignup:        c.InvitationConfig.AcceptInviteAfterSignup,
		KeyExpiry:                c.InvitationConfig.KeyExpiry,
	}
}

func (c *Config) GetPort() string {
	return c.Port
}

func (c *Config) GetTimeout() int {
	return int(c.Timeout)
}

func (c *Config) GetReadBufferSize() int {
	return c.ReadBufferSize
}

func (c *Config) GetAppName() string {
	return c.AppName
}

func (c *Config) GetIsProduction() bool {
	return c.IsProduction
}

func (c *Config) GetCookieKey() string {
	return c.CookieKey
}

func (c *Config) GetBodyLimit() int {
	return c.BodyLimit
}
