package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nab23-dev/prompt-sci/internal/rabbitmq"
)

// QueuePublisher is the transport used by MQPublisher.
type QueuePublisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

var queueByType = map[Type]string{
	PostCreated:  rabbitmq.POSTS_CREATED_QUEUE,
	PostDeleted:  rabbitmq.POSTS_DELETED_QUEUE,
	PostReacted:  rabbitmq.POSTS_REACTED_QUEUE,
	PostApproved: rabbitmq.POSTS_APPROVED_QUEUE,
	UserDeleted:  rabbitmq.USERS_DELETED_QUEUE,
}

// MQPublisher writes each event as JSON to the queue of its type.
type MQPublisher struct {
	mq QueuePublisher
}

func NewMQPublisher(mq QueuePublisher) *MQPublisher {
	return &MQPublisher{
		mq: mq,
	}
}

func (p *MQPublisher) Publish(ctx context.Context, event Event) error {
	queue, ok := queueByType[event.Type]
	if !ok {
		return fmt.Errorf("no queue for event type %q", event.Type)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.mq.Publish(ctx, queue, body); err != nil {
		publishErrors.WithLabelValues(queue).Inc()
		return fmt.Errorf("failed to publish to rabbitmq queue(%s): %w", queue, err)
	}
	return nil
}
