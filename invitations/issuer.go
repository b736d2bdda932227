package invitations

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/invitehub/invitation-server/models/userdata"
	"github.com/invitehub/invitation-server/utils"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrAlreadyInvited  = errors.New("pending invite")
	ErrAlreadyAccepted = errors.New("already accepted")
	ErrUserRegistered  = errors.New("user registered email")
)

type Issuer struct {
	store    Store
	users    UserDirectory
	settings Settings
	validate *validator.Validate
}

func NewIssuer(store Store, users UserDirectory, settings Settings) *Issuer {
	return &Issuer{
		store:    store,
		users:    users,
		settings: settings,
		validate: validator.New(),
	}
}

// ValidateAndCreate vets a candidate email and persists a fresh invitation
// for it. Checks run cheapest first: syntax, then a pending unexpired invite
// for the same address, then a previously accepted one, then an existing user
// account. The new record carries no sent timestamp; dispatch is a separate
// step.
func (i *Issuer) ValidateAndCreate(ctx context.Context, email string, inviter int64) (*userdata.Invitation, error) {
	if err := i.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	pending, err := i.store.PendingExists(ctx, email, i.settings.KeyExpiry)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrAlreadyInvited
	}

	accepted, err := i.store.AcceptedExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if accepted {
		return nil, ErrAlreadyAccepted
	}

	registered, err := i.users.EmailRegistered(ctx, email)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrUserRegistered
	}

	inv := &userdata.Invitation{
		Key:       NewKey(),
		Email:     email,
		InviterId: inviter,
		CreatedAt: time.Now().UTC(),
	}

	if err := i.store.Create(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// NewKey returns a fresh invitation key. Hex keeps it lowercase, which is the
// canonical form for lookups.
func NewKey() string {
	return hex.EncodeToString(utils.GenerateRandomBytes(32))
}
