package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends persistent JSON messages to a single durable queue.
// The task API is the producer; the indexer worker is the consumer on the
// other end of the same queue, so both sides declare it.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	p := &RabbitPublisher{conn: conn, queue: queue}
	if p.channel, err = conn.Channel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	// durable, survives broker restarts together with persistent deliveries
	if _, err = p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// PublishJSON marshals body and publishes it to the queue via the default
// exchange. Deliveries are persistent.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}
	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
