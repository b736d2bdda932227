package invitations

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SignupHook finalizes a deferred acceptance once the invitee completes
// registration. The boundary layer registers it with whatever notification
// mechanism delivers signup events, and only when deferred mode is
// configured.
type SignupHook struct {
	store    Store
	acceptor *Acceptor
}

func NewSignupHook(store Store, acceptor *Acceptor) *SignupHook {
	return &SignupHook{store: store, acceptor: acceptor}
}

// OnSignupCompleted accepts the newest unaccepted invitation for email, if
// one exists. A signup without a matching invitation is a no-op.
func (h *SignupHook) OnSignupCompleted(ctx context.Context, email, remoteAddr string) error {
	inv, err := h.store.NewestUnacceptedByEmail(ctx, email)
	if err != nil {
		return err
	}
	if inv == nil {
		return nil
	}

	flipped, err := h.acceptor.Accept(ctx, inv, remoteAddr)
	if err != nil {
		return err
	}
	if flipped {
		log.Info().Str("email", email).Msg("Accepted invitation after signup")
	}

	return nil
}
