package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dbc60/Intervals/pkg/common/validation"
)

// Publisher publishes run summaries to a Redis channel so a fleet of
// desynchronized timers can be observed from one place. Consumers subscribe
// to the channel and receive one JSON Summary per completed run.
type Publisher struct {
	client  redis.UniversalClient
	channel string
}

// NewPublisher creates a Publisher on the given Redis client and channel.
func NewPublisher(client redis.UniversalClient, channel string) (*Publisher, error) {
	if client == nil {
		return nil, validation.ValidateNotNil(module, "client", nil)
	}
	if err := validation.ValidateNotEmpty(module, "channel", channel); err != nil {
		return nil, err
	}
	return &Publisher{client: client, channel: channel}, nil
}

// WriteSummary implements Writer using a background context.
func (p *Publisher) WriteSummary(s Summary) error {
	return p.Publish(context.Background(), s)
}

// Publish publishes one summary to the configured channel.
func (p *Publisher) Publish(ctx context.Context, s Summary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish summary to %q: %w", p.channel, err)
	}
	return nil
}
