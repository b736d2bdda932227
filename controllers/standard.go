package controllers

import "github.com/invitehub/invitation-server/utils"

var (
	standardRoute utils.JwtMiddlewareConfig
)

func init() {
	standardRoute = utils.JwtMiddlewareConfig{
		ReadFrom: "header",
		Subject:  "access",
		Scopes:   []string{"basic"},
	}
}
