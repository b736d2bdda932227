package invitations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invitehub/invitation-server/models/userdata"
)

func TestOnSignupCompletedAcceptsPendingInvitation(t *testing.T) {
	inv := pendingInvitation("k1", "d@x.com")
	store := newFakeStore(inv)
	events := &fakePublisher{}
	hook := NewSignupHook(store, NewAcceptor(store, events))

	require.NoError(t, hook.OnSignupCompleted(context.Background(), "d@x.com", "10.0.0.1"))

	assert.True(t, inv.Accepted)
	require.Len(t, events.events, 1)
	assert.Equal(t, "d@x.com", events.events[0].Email)

	// A second signup event for the same address is a no-op.
	require.NoError(t, hook.OnSignupCompleted(context.Background(), "d@x.com", "10.0.0.1"))
	assert.Len(t, events.events, 1)
}

func TestOnSignupCompletedWithoutInvitation(t *testing.T) {
	store := newFakeStore()
	events := &fakePublisher{}
	hook := NewSignupHook(store, NewAcceptor(store, events))

	require.NoError(t, hook.OnSignupCompleted(context.Background(), "nobody@x.com", ""))
	assert.Empty(t, events.events)
}

func TestOnSignupCompletedPicksNewestRecord(t *testing.T) {
	older := pendingInvitation("k1", "d@x.com")
	older.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	newer := pendingInvitation("k2", "d@x.com")

	store := newFakeStore(older, newer)
	events := &fakePublisher{}
	hook := NewSignupHook(store, NewAcceptor(store, events))

	require.NoError(t, hook.OnSignupCompleted(context.Background(), "d@x.com", ""))

	assert.True(t, newer.Accepted)
	assert.False(t, older.Accepted)
}

func TestOnSignupCompletedIgnoresAcceptedRecords(t *testing.T) {
	inv := &userdata.Invitation{
		Key:       "k1",
		Email:     "d@x.com",
		Accepted:  true,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	store := newFakeStore(inv)
	events := &fakePublisher{}
	hook := NewSignupHook(store, NewAcceptor(store, events))

	require.NoError(t, hook.OnSignupCompleted(context.Background(), "d@x.com", ""))
	assert.Empty(t, events.events)
}
