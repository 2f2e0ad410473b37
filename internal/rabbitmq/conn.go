package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MQConn publishes JSON messages to durable queues over a single channel.
type MQConn struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and declares every queue in Queues.
func Dial(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, queue := range Queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue(%s): %w", queue, err)
		}
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

func (c *MQConn) Publish(ctx context.Context, queue string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (c *MQConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
