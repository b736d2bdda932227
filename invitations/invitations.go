// Package invitations holds the invitation lifecycle core: issuing new
// invitations, classifying acceptance attempts and applying the acceptance
// side effects. Persistence, email dispatch and event delivery are consumed
// through the interfaces below.
package invitations

import (
	"context"
	"time"

	"github.com/invitehub/invitation-server/models/userdata"
)

type Settings struct {
	RequireAuthenticatedUser bool
	AcceptAfterSignup        bool
	KeyExpiry                time.Duration
}

// Store is the persistence surface for invitation records. GetByKey and
// NewestUnacceptedByEmail return a nil record, not an error, when nothing
// matches.
type Store interface {
	GetByKey(ctx context.Context, key string) (*userdata.Invitation, error)
	Create(ctx context.Context, inv *userdata.Invitation) error
	PendingExists(ctx context.Context, email string, expiry time.Duration) (bool, error)
	AcceptedExists(ctx context.Context, email string) (bool, error)

	// MarkAccepted flips the accepted flag and reports whether this call was
	// the one that flipped it. A record that was already accepted, or absent,
	// yields false.
	MarkAccepted(ctx context.Context, key string) (bool, error)
	MarkSent(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, key string) error
	NewestUnacceptedByEmail(ctx context.Context, email string) (*userdata.Invitation, error)
}

type UserDirectory interface {
	EmailRegistered(ctx context.Context, email string) (bool, error)
}

type AcceptedEvent struct {
	Email      string    `json:"email"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	AcceptedAt time.Time `json:"accepted_at"`
}

type Publisher interface {
	PublishAccepted(ctx context.Context, event AcceptedEvent) error
}

type Mailer interface {
	SendInvitation(email, key string) error
}
