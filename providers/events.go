package providers

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/invitehub/invitation-server/invitations"
)

const acceptedChannel = "invitations.accepted"

// RedisEvents fans accepted-invitation events out to the rest of the platform
// over redis pub/sub.
type RedisEvents struct {
	client *redis.Client
}

func NewRedisEvents(client *redis.Client) *RedisEvents {
	return &RedisEvents{client: client}
}

func (p *RedisEvents) PublishAccepted(ctx context.Context, event invitations.AcceptedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, acceptedChannel, payload).Err()
}
