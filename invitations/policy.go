package invitations

import (
	"time"

	"github.com/invitehub/invitation-server/models/userdata"
)

type Outcome int

const (
	OutcomeAbsent Outcome = iota
	OutcomeAlreadyAccepted
	OutcomeKeyExpired
	OutcomeAuthRequired
	OutcomeValid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAbsent:
		return "absent"
	case OutcomeAlreadyAccepted:
		return "already_accepted"
	case OutcomeKeyExpired:
		return "key_expired"
	case OutcomeAuthRequired:
		return "auth_required"
	case OutcomeValid:
		return "valid"
	}
	return "unknown"
}

// Classify decides what an acceptance attempt against inv may do. The branch
// order is load-bearing: an accepted record that has since passed its expiry
// window must still read as already accepted, so that the caller directs the
// invitee to login rather than signup. The authentication requirement only
// applies to otherwise-valid invitations, so it is checked last.
func Classify(inv *userdata.Invitation, authenticated bool, settings Settings, now time.Time) Outcome {
	if inv == nil {
		return OutcomeAbsent
	}

	if inv.Accepted {
		return OutcomeAlreadyAccepted
	}

	if inv.KeyExpired(settings.KeyExpiry, now) {
		return OutcomeKeyExpired
	}

	if settings.RequireAuthenticatedUser && !authenticated {
		return OutcomeAuthRequired
	}

	return OutcomeValid
}
