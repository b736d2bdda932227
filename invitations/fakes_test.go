package invitations

import (
	"context"
	"time"

	"github.com/invitehub/invitation-server/models/userdata"
)

// In-memory Store used across the package tests.
type fakeStore struct {
	invs map[string]*userdata.Invitation
}

func newFakeStore(invs ...*userdata.Invitation) *fakeStore {
	s := &fakeStore{invs: make(map[string]*userdata.Invitation)}
	for _, inv := range invs {
		s.invs[inv.Key] = inv
	}
	return s
}

func (s *fakeStore) GetByKey(ctx context.Context, key string) (*userdata.Invitation, error) {
	return s.invs[key], nil
}

func (s *fakeStore) Create(ctx context.Context, inv *userdata.Invitation) error {
	s.invs[inv.Key] = inv
	return nil
}

func (s *fakeStore) PendingExists(ctx context.Context, email string, expiry time.Duration) (bool, error) {
	now := time.Now().UTC()
	for _, inv := range s.invs {
		if inv.Email == email && !inv.Accepted && !inv.KeyExpired(expiry, now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) AcceptedExists(ctx context.Context, email string) (bool, error) {
	for _, inv := range s.invs {
		if inv.Email == email && inv.Accepted {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) MarkAccepted(ctx context.Context, key string) (bool, error) {
	inv, ok := s.invs[key]
	if !ok || inv.Accepted {
		return false, nil
	}
	inv.Accepted = true
	return true, nil
}

func (s *fakeStore) MarkSent(ctx context.Context, key string, at time.Time) error {
	if inv, ok := s.invs[key]; ok {
		inv.Sent = &at
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	delete(s.invs, key)
	return nil
}

func (s *fakeStore) NewestUnacceptedByEmail(ctx context.Context, email string) (*userdata.Invitation, error) {
	var newest *userdata.Invitation
	for _, inv := range s.invs {
		if inv.Email != email || inv.Accepted {
			continue
		}
		if newest == nil || inv.CreatedAt.After(newest.CreatedAt) {
			newest = inv
		}
	}
	return newest, nil
}

type fakeUsers struct {
	registered map[string]bool
}

func (u *fakeUsers) EmailRegistered(ctx context.Context, email string) (bool, error) {
	return u.registered[email], nil
}

type fakePublisher struct {
	events []AcceptedEvent
	err    error
}

func (p *fakePublisher) PublishAccepted(ctx context.Context, event AcceptedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
