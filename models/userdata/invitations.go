package userdata

import (
	"time"

	"github.com/uptrace/bun"
)

type Invitation struct {
	bun.BaseModel `bun:"userdata.invitations"`

	Key       string     `bun:",pk" json:"key"`
	Email     string     `json:"email"`
	InviterId int64      `bun:",nullzero" json:"-"`
	Inviter   *User      `bun:"rel:belongs-to,join:inviter_id=id" json:"inviter,omitempty"`
	Sent      *time.Time `json:"sent"`
	Accepted  bool       `json:"accepted"`
	CreatedAt time.Time  `json:"created_at"`
}

// KeyExpired reports whether the invitation key has outlived the expiry
// window. The clock starts at the sent timestamp, or at creation time for an
// invitation that was never dispatched. A zero window disables expiry.
func (inv *Invitation) KeyExpired(expiry time.Duration, now time.Time) bool {
	if expiry <= 0 {
		return false
	}

	start := inv.CreatedAt
	if inv.Sent != nil {
		start = *inv.Sent
	}

	return now.After(start.Add(expiry))
}
