package repos

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/invitehub/invitation-server/models/userdata"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (c *UserRepo) EmailRegistered(ctx context.Context, email string) (bool, error) {
	count, err := c.db.NewSelect().Model((*userdata.User)(nil)).
		Where("email = ?", email).
		Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
