package invitations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/invitehub/invitation-server/models/userdata"
)

func TestClassify(t *testing.T) {
	now := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	expiry := 72 * time.Hour

	fresh := func() *userdata.Invitation {
		return &userdata.Invitation{
			Key:       "abc123",
			Email:     "a@x.com",
			CreatedAt: now.Add(-time.Hour),
		}
	}

	tests := []struct {
		name          string
		inv           *userdata.Invitation
		authenticated bool
		settings      Settings
		want          Outcome
	}{
		{
			name:     "nil record is absent",
			inv:      nil,
			settings: Settings{KeyExpiry: expiry},
			want:     OutcomeAbsent,
		},
		{
			name: "pending record is valid",
			inv:  fresh(),
			settings: Settings{
				KeyExpiry: expiry,
			},
			want: OutcomeValid,
		},
		{
			name: "accepted record reads accepted",
			inv: func() *userdata.Invitation {
				inv := fresh()
				inv.Accepted = true
				return inv
			}(),
			settings: Settings{KeyExpiry: expiry},
			want:     OutcomeAlreadyAccepted,
		},
		{
			name: "accepted wins over expired",
			inv: func() *userdata.Invitation {
				inv := fresh()
				inv.Accepted = true
				inv.CreatedAt = now.Add(-30 * 24 * time.Hour)
				return inv
			}(),
			settings: Settings{KeyExpiry: expiry},
			want:     OutcomeAlreadyAccepted,
		},
		{
			name: "expired record reads expired",
			inv: func() *userdata.Invitation {
				inv := fresh()
				inv.CreatedAt = now.Add(-30 * 24 * time.Hour)
				return inv
			}(),
			settings: Settings{KeyExpiry: expiry},
			want:     OutcomeKeyExpired,
		},
		{
			name: "auth requirement blocks anonymous attempts",
			inv:  fresh(),
			settings: Settings{
				KeyExpiry:                expiry,
				RequireAuthenticatedUser: true,
			},
			want: OutcomeAuthRequired,
		},
		{
			name:          "auth requirement satisfied",
			inv:           fresh(),
			authenticated: true,
			settings: Settings{
				KeyExpiry:                expiry,
				RequireAuthenticatedUser: true,
			},
			want: OutcomeValid,
		},
		{
			name: "auth requirement does not mask expiry",
			inv: func() *userdata.Invitation {
				inv := fresh()
				inv.CreatedAt = now.Add(-30 * 24 * time.Hour)
				return inv
			}(),
			settings: Settings{
				KeyExpiry:                expiry,
				RequireAuthenticatedUser: true,
			},
			want: OutcomeKeyExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.inv, tt.authenticated, tt.settings, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyAbsentIgnoresOtherInputs(t *testing.T) {
	now := time.Now().UTC()

	for _, authenticated := range []bool{true, false} {
		for _, requireAuth := range []bool{true, false} {
			got := Classify(nil, authenticated, Settings{RequireAuthenticatedUser: requireAuth}, now)
			assert.Equal(t, OutcomeAbsent, got)
		}
	}
}
