package invitations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invitehub/invitation-server/models/userdata"
)

func pendingInvitation(key, email string) *userdata.Invitation {
	return &userdata.Invitation{
		Key:       key,
		Email:     email,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
}

func TestAcceptFlipsOnce(t *testing.T) {
	inv := pendingInvitation("k1", "a@x.com")
	store := newFakeStore(inv)
	events := &fakePublisher{}
	acceptor := NewAcceptor(store, events)

	flipped, err := acceptor.Accept(context.Background(), inv, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.True(t, inv.Accepted)

	require.Len(t, events.events, 1)
	assert.Equal(t, "a@x.com", events.events[0].Email)
	assert.Equal(t, "10.0.0.1", events.events[0].RemoteAddr)
	assert.False(t, events.events[0].AcceptedAt.IsZero())

	// The loser of the conditional update gets false and no second event.
	flipped, err = acceptor.Accept(context.Background(), inv, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.Len(t, events.events, 1)
}

func TestAcceptPublishFailureDoesNotFailAcceptance(t *testing.T) {
	inv := pendingInvitation("k1", "a@x.com")
	store := newFakeStore(inv)
	acceptor := NewAcceptor(store, &fakePublisher{err: errors.New("redis down")})

	flipped, err := acceptor.Accept(context.Background(), inv, "")
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.True(t, inv.Accepted)
}
