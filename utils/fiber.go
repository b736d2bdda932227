package utils

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog/log"
)

const authScheme = "Bearer"

var (
	publicKey rsa.PublicKey
)

type Router struct {
	fiber.Router
}

type JwtMiddlewareConfig struct {
	ReadFrom string
	Subject  string
	Scopes   []string
}

const (
	FlashError   = "error"
	FlashSuccess = "success"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func GetDefaultRouter(app *fiber.App) *Router {
	temp := app.Group("")
	return &Router{Router: temp}
}

func InitSharedConstants(pubKey rsa.PublicKey) {
	publicKey = pubKey
}

// Protected rejects requests that do not carry a valid JWT for the configured
// subject and scopes. The user id lands in Locals("user").
func Protected(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := userFromRequest(c, config)
		if err != nil {
			status := fiber.StatusUnauthorized
			if errors.Is(err, errInvalidScope) {
				status = fiber.StatusForbidden
			}

			return c.Status(status).JSON(fiber.Map{
				"error":             "access_denied",
				"error_description": err.Error(),
			})
		}

		c.Locals("user", id)
		return c.Next()
	}
}

// Identify is the non-rejecting variant of Protected: it sets Locals("user")
// when a valid token is present and lets the request through either way.
// Routes that merely need to know whether the caller is authenticated use
// this.
func Identify(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, err := userFromRequest(c, config); err == nil {
			c.Locals("user", id)
		}

		return c.Next()
	}
}

var errInvalidScope = errors.New("Invalid scope")

func userFromRequest(c *fiber.Ctx, config JwtMiddlewareConfig) (int64, error) {
	rawToken, err := func() (string, error) {
		if config.ReadFrom == "header" {
			auth := c.Get("Authorization")
			l := len(authScheme)
			if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) {
				return auth[l+1:], nil
			}

			return "", errors.New("Missing or malformed JWT")
		} else if config.ReadFrom == "cookie" {
			token := c.Cookies("accessToken")
			if token == "" {
				return "", errors.New("Missing or malformed JWT")
			}

			return token, nil
		}
		return "", errors.New("Invalid token read location")
	}()
	if err != nil {
		return 0, err
	}

	tok, err := jwt.Parse(rawToken, func(jwtToken *jwt.Token) (interface{}, error) {
		if _, ok := jwtToken.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
		}
		return &publicKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return 0, errors.New("Invalid JWT")
	}

	if claims["sub"].(string) != config.Subject {
		return 0, errors.New("Invalid JWT")
	}

	scopeArray := strings.Split(claims["scope"].(string), " ")
	for _, scope := range config.Scopes {
		if IsInList(scope, &scopeArray) == -1 {
			return 0, errInvalidScope
		}
	}

	id, err := strconv.ParseInt(claims["user"].(string), 10, 64)
	if err != nil {
		return 0, errors.New("Invalid JWT")
	}

	return id, nil
}

// AddFlash leaves a one-shot category-tagged message for the next page load.
// The cookie value is base64 so the JSON survives cookie encoding; the
// encryptcookie middleware wraps it in transit.
func AddFlash(c *fiber.Ctx, category, message string) {
	payload, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		log.Error().Err(err).Msg("Could not encode flash message")
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     "flash",
		Value:    string(EncodeBase64(payload)),
		MaxAge:   60,
		HTTPOnly: false,
	})
}

// StashVerifiedEmail records the address confirmed by an accepted invitation
// so the signup form can pre-fill it.
func StashVerifiedEmail(c *fiber.Ctx, email string) {
	c.Cookie(&fiber.Cookie{
		Name:     "verified_email",
		Value:    email,
		MaxAge:   900,
		HTTPOnly: true,
	})
}

func ParsePublicKey(key string) *rsa.PublicKey {
	tempJwtPublicKey, err := DecodeBase64([]byte(key))
	if err != nil {
		log.Panic().Err(err).Msg("Failed to decode jwt public key")
	}
	jwtPublicKey, err := jwt.ParseRSAPublicKeyFromPEM(tempJwtPublicKey)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to parse jwt public key")
	}
	return jwtPublicKey
}

func StandardInternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardCouldNotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Could not parse request",
	})
}
