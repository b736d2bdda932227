package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/invitehub/invitation-server/models/userdata"
)

type InvitationRepo struct {
	db *bun.DB
}

func NewInvitationRepo(db *bun.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// GetByKey looks up an invitation by its lowercased key, inviter included.
// An absent record is a nil result, not an error.
func (c *InvitationRepo) GetByKey(ctx context.Context, key string) (*userdata.Invitation, error) {
	inv := new(userdata.Invitation)
	err := c.db.NewSelect().Model(inv).Relation("Inviter").Where("key = ?", strings.ToLower(key)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return inv, nil
}

func (c *InvitationRepo) Create(ctx context.Context, inv *userdata.Invitation) error {
	_, err := c.db.NewInsert().Model(inv).Exec(ctx)
	return err
}

// PendingExists reports whether email already has an unaccepted, unexpired
// invitation. A zero expiry means invitations never expire, so any unaccepted
// record counts.
func (c *InvitationRepo) PendingExists(ctx context.Context, email string, expiry time.Duration) (bool, error) {
	q := c.db.NewSelect().Model((*userdata.Invitation)(nil)).
		Where("email = ?", email).
		Where("accepted = ?", false)

	if expiry > 0 {
		q = q.Where("COALESCE(sent, created_at) > ?", time.Now().UTC().Add(-expiry))
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (c *InvitationRepo) AcceptedExists(ctx context.Context, email string) (bool, error) {
	count, err := c.db.NewSelect().Model((*userdata.Invitation)(nil)).
		Where("email = ?", email).
		Where("accepted = ?", true).
		Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MarkAccepted is conditional on accepted=false so that concurrent attempts
// for the same key serialize on the row: only the attempt that flips the flag
// sees true.
func (c *InvitationRepo) MarkAccepted(ctx context.Context, key string) (bool, error) {
	res, err := c.db.NewUpdate().Model((*userdata.Invitation)(nil)).
		Set("accepted = ?", true).
		Where("key = ?", strings.ToLower(key)).
		Where("accepted = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (c *InvitationRepo) MarkSent(ctx context.Context, key string, at time.Time) error {
	_, err := c.db.NewUpdate().Model((*userdata.Invitation)(nil)).
		Set("sent = ?", at).
		Where("key = ?", strings.ToLower(key)).
		Exec(ctx)
	return err
}

// Delete is idempotent: removing an absent key is not an error.
func (c *InvitationRepo) Delete(ctx context.Context, key string) error {
	_, err := c.db.NewDelete().Model((*userdata.Invitation)(nil)).
		Where("key = ?", strings.ToLower(key)).
		Exec(ctx)
	return err
}

// NewestUnacceptedByEmail picks the most recently created unaccepted record
// for email. Ordering by creation time keeps the pick deterministic when an
// address was invited more than once.
func (c *InvitationRepo) NewestUnacceptedByEmail(ctx context.Context, email string) (*userdata.Invitation, error) {
	inv := new(userdata.Invitation)
	err := c.db.NewSelect().Model(inv).
		Where("email = ?", email).
		Where("accepted = ?", false).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return inv, nil
}
