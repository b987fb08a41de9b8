// Package messaging routes channel-neutral messages to the transport for each channel.
package messaging

import (
	"context"
	"fmt"

	"crewmatch/internal/domain"
)

// Router is a domain.Messenger that delegates by endpoint channel.
type Router struct {
	channels map[domain.Channel]domain.Messenger
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{channels: make(map[domain.Channel]domain.Messenger)}
}

// Handle registers m for ch, replacing any previous transport.
func (r *Router) Handle(ch domain.Channel, m domain.Messenger) *Router {
	r.channels[ch] = m
	return r
}

func (r *Router) Send(ctx context.Context, endpoint domain.Endpoint, msg domain.Message) error {
	m, ok := r.channels[endpoint.Channel]
	if !ok {
		return fmt.Errorf("no transport for channel %q", endpoint.Channel)
	}
	return m.Send(ctx, endpoint, msg)
}
