package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/invitehub/invitation-server/config"
	"github.com/invitehub/invitation-server/invitations"
	"github.com/invitehub/invitation-server/models/userdata"
	"github.com/invitehub/invitation-server/utils"
)

type InvitationController struct {
	fx.In

	Issuer   *invitations.Issuer
	Acceptor *invitations.Acceptor
	Store    invitations.Store
	Mailer   invitations.Mailer
}

type inviteRequest struct {
	Email string `json:"email"`
}

type batchResponse struct {
	Valid   []map[string]string `json:"valid"`
	Invalid []map[string]string `json:"invalid"`
}

// User-facing message texts keyed by condition. The handlers pick a key; the
// flash cookie carries the rendered text.
var messages = map[string]string{
	"invite_invalid":          "This invitation link is invalid or has been removed.",
	"invite_already_accepted": "The invitation for {{email}} was already accepted.",
	"invite_expired":          "The invitation for {{email}} has expired.",
	"invite_accepted":         "Invitation for {{email}} accepted.",
}

var (
	settings invitations.Settings
	invCfg   config.InvitationConfig
)

func RegisterInvitationController(r *utils.Router, cfg *config.Config, c InvitationController) {
	settings = cfg.InvitationSettings()
	invCfg = cfg.InvitationConfig

	r.Post("/invitations", utils.Protected(standardRoute), c.sendInvite)
	r.Post("/invitations/batch", utils.Protected(standardRoute), c.sendBatch)

	accept := r.Group("/invitations/accept")
	accept.Get("/:key", utils.Identify(standardRoute), c.previewInvite)
	accept.Post("/:key", utils.Identify(standardRoute), c.acceptInvite)
	accept.Delete("/:key", utils.Protected(standardRoute), c.deleteInvite)
}

func (r *InvitationController) sendInvite(c *fiber.Ctx) error {
	req := new(inviteRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	inv, err := r.Issuer.ValidateAndCreate(c.Context(), req.Email, c.Locals("user").(int64))
	if err != nil {
		if reason := issueReason(err); reason != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": reason,
			})
		}

		return utils.StandardInternalError(c, err)
	}

	if err := r.dispatch(c.Context(), inv); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"email": inv.Email,
		"key":   inv.Key,
	})
}

// sendBatch is the JSON bulk intake: a raw array of candidate emails in, a
// per-item verdict out. Available only when the deployment opts in.
func (r *InvitationController) sendBatch(c *fiber.Ctx) error {
	if !invCfg.AllowJsonInvites {
		return fiber.ErrNotFound
	}

	response := batchResponse{
		Valid:   []map[string]string{},
		Invalid: []map[string]string{},
	}

	var invitees []interface{}
	if err := json.Unmarshal(c.Body(), &invitees); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	inviter := c.Locals("user").(int64)

	for _, raw := range invitees {
		email, ok := raw.(string)
		if !ok {
			continue
		}

		inv, err := r.Issuer.ValidateAndCreate(c.Context(), email, inviter)
		if err != nil {
			reason := issueReason(err)
			if reason == "" {
				// Non-classified failures are skipped, not reported.
				log.Warn().Err(err).Str("email", email).Msg("Skipped invitee")
				continue
			}

			response.Invalid = append(response.Invalid, map[string]string{email: reason})
			continue
		}

		if err := r.dispatch(c.Context(), inv); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Could not send invitation email")
		}

		response.Valid = append(response.Valid, map[string]string{email: "invited"})
	}

	status := fiber.StatusBadRequest
	if len(response.Valid) > 0 {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(response)
}

// previewInvite is the read-only GET path. Deployments that confirm on GET
// treat it as an acceptance attempt; otherwise it answers structured clients
// only, and only for invitations that are still pending.
func (r *InvitationController) previewInvite(c *fiber.Ctx) error {
	if invCfg.ConfirmInviteOnGet {
		return r.acceptInvite(c)
	}

	if !c.XHR() {
		return fiber.ErrNotFound
	}

	inv, err := r.Store.GetByKey(c.Context(), strings.ToLower(c.Params("key")))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if inv == nil || inv.Accepted || inv.KeyExpired(settings.KeyExpiry, time.Now().UTC()) {
		return fiber.ErrNotFound
	}

	return c.JSON(fiber.Map{"invitation": previewPayload(inv)})
}

func (r *InvitationController) acceptInvite(c *fiber.Ctx) error {
	inv, err := r.Store.GetByKey(c.Context(), strings.ToLower(c.Params("key")))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	outcome := invitations.Classify(inv, c.Locals("user") != nil, settings, time.Now().UTC())

	// Compatibility with older clients: a bare 410 for any bad key, before
	// the per-outcome responses.
	if invCfg.GoneOnAcceptError && (outcome == invitations.OutcomeAbsent ||
		outcome == invitations.OutcomeAlreadyAccepted ||
		outcome == invitations.OutcomeKeyExpired) {
		return gone(c)
	}

	switch outcome {
	case invitations.OutcomeAbsent:
		return r.fail(c, "INVITATION_INVALID", "invite_invalid", nil, invCfg.LoginRedirect)
	case invitations.OutcomeAlreadyAccepted:
		// Redirect to login since there is hopefully an account already.
		return r.fail(c, "INVITATION_ALREADY_ACCEPTED", "invite_already_accepted", inv, invCfg.LoginRedirect)
	case invitations.OutcomeKeyExpired:
		// Redirect to signup since they might be able to register anyway.
		return r.fail(c, "KEY_EXPIRED", "invite_expired", inv, invCfg.SignupRedirect)
	case invitations.OutcomeAuthRequired:
		return r.fail(c, "AUTHENTICATED_USER_REQUIRED", "invite_invalid", nil, invCfg.LoginRedirect)
	}

	// Mark accepted now unless acceptance is deferred to signup completion.
	if !settings.AcceptAfterSignup {
		flipped, err := r.Acceptor.Accept(c.Context(), inv, c.IP())
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		if !flipped {
			// A concurrent attempt won between classify and the update, so
			// this one renders as already accepted, gone-mode included.
			if invCfg.GoneOnAcceptError {
				return gone(c)
			}
			return r.fail(c, "INVITATION_ALREADY_ACCEPTED", "invite_already_accepted", inv, invCfg.LoginRedirect)
		}

		utils.AddFlash(c, utils.FlashSuccess, renderMessage("invite_accepted", inv))
	}

	utils.StashVerifiedEmail(c, inv.Email)

	if c.XHR() {
		return c.JSON(fiber.Map{"ok": true})
	}

	return c.Redirect(invCfg.SignupRedirect, fiber.StatusSeeOther)
}

func (r *InvitationController) deleteInvite(c *fiber.Ctx) error {
	if err := r.Store.Delete(c.Context(), strings.ToLower(c.Params("key"))); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (r *InvitationController) dispatch(ctx context.Context, inv *userdata.Invitation) error {
	if err := r.Mailer.SendInvitation(inv.Email, inv.Key); err != nil {
		return err
	}

	return r.Store.MarkSent(ctx, inv.Key, time.Now().UTC())
}

// gone is the compatibility response: a bare 410 with no body. SendStatus
// would backfill the status text, so the empty body is sent explicitly.
func gone(c *fiber.Ctx) error {
	return c.Status(fiber.StatusGone).Send(nil)
}

// fail renders one failed acceptance outcome: a structured 410 for machine
// clients, a flash message plus redirect for humans.
func (r *InvitationController) fail(c *fiber.Ctx, code, messageKey string, inv *userdata.Invitation, target string) error {
	if c.XHR() {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"ok":    false,
			"error": code,
		})
	}

	utils.AddFlash(c, utils.FlashError, renderMessage(messageKey, inv))
	return c.Redirect(target, fiber.StatusSeeOther)
}

func renderMessage(key string, inv *userdata.Invitation) string {
	text := messages[key]
	if inv == nil {
		return text
	}

	return utils.Format(text, map[string]string{"{{email}}": inv.Email})
}

func issueReason(err error) string {
	switch {
	case errors.Is(err, invitations.ErrInvalidEmail):
		return "invalid email"
	case errors.Is(err, invitations.ErrAlreadyInvited):
		return "pending invite"
	case errors.Is(err, invitations.ErrAlreadyAccepted):
		return "already accepted"
	case errors.Is(err, invitations.ErrUserRegistered):
		return "user registered email"
	}
	return ""
}

func previewPayload(inv *userdata.Invitation) fiber.Map {
	payload := fiber.Map{
		"email":   inv.Email,
		"key":     inv.Key,
		"sent":    nil,
		"inviter": nil,
	}

	if inv.Sent != nil {
		payload["sent"] = inv.Sent.UTC().Format(time.RFC3339)
	}

	if inv.Inviter != nil {
		payload["inviter"] = fiber.Map{
			"username":   inv.Inviter.Username,
			"email":      inv.Inviter.Email,
			"full_name":  inv.Inviter.FullName(),
			"first_name": inv.Inviter.FirstName,
			"last_name":  inv.Inviter.LastName,
		}
	}

	return payload
}
