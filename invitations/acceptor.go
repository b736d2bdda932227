package invitations

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/invitehub/invitation-server/models/userdata"
)

type Acceptor struct {
	store  Store
	events Publisher
}

func NewAcceptor(store Store, events Publisher) *Acceptor {
	return &Acceptor{store: store, events: events}
}

// Accept finalizes an invitation. The flag flip is a conditional update keyed
// on accepted=false, so of two racing attempts only one returns true; the
// loser should be treated as an already-accepted attempt. The accepted event
// is published at most once, and a publish failure never fails the
// acceptance.
func (a *Acceptor) Accept(ctx context.Context, inv *userdata.Invitation, remoteAddr string) (bool, error) {
	flipped, err := a.store.MarkAccepted(ctx, inv.Key)
	if err != nil {
		return false, err
	}
	if !flipped {
		return false, nil
	}

	inv.Accepted = true

	err = a.events.PublishAccepted(ctx, AcceptedEvent{
		Email:      inv.Email,
		RemoteAddr: remoteAddr,
		AcceptedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("email", inv.Email).Msg("Could not publish invite accepted event")
	}

	return true, nil
}
