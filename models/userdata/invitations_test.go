package userdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyExpired(t *testing.T) {
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	expiry := 72 * time.Hour

	inv := &Invitation{Key: "k1", Email: "a@x.com", CreatedAt: created}

	assert.False(t, inv.KeyExpired(expiry, created))
	assert.False(t, inv.KeyExpired(expiry, created.Add(expiry)))
	assert.True(t, inv.KeyExpired(expiry, created.Add(expiry+time.Second)))
}

func TestKeyExpiredMeasuresFromSent(t *testing.T) {
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	sent := created.Add(24 * time.Hour)
	expiry := 72 * time.Hour

	inv := &Invitation{Key: "k1", Email: "a@x.com", CreatedAt: created, Sent: &sent}

	// Still alive where the creation clock would have run out.
	assert.False(t, inv.KeyExpired(expiry, created.Add(expiry+time.Hour)))
	assert.True(t, inv.KeyExpired(expiry, sent.Add(expiry+time.Second)))
}

func TestKeyExpiredZeroWindowNeverExpires(t *testing.T) {
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	inv := &Invitation{Key: "k1", Email: "a@x.com", CreatedAt: created}

	assert.False(t, inv.KeyExpired(0, created.Add(100*365*24*time.Hour)))
}
