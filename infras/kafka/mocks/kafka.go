package mocks

import (
	"context"

	"frontdesk/infras/kafka"
)

type clientImpl struct {
}

// SendMessages implements kafka.Client. Publishing is fire-and-forget
// in the services, so the fake just accepts everything.
func (c *clientImpl) SendMessages(_ context.Context, _ string, _ ...kafka.Message) error {
	return nil
}

func NewClient() kafka.Client {
	return &clientImpl{}
}
