package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"chore-clash/pkg/config"
	"chore-clash/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange  = "chore_events"
	EventsQueueName = "chore_events_queue"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Topic exchange so consumers can bind to completion.*, starpurchase.*
	// or a single routing key.
	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		EventsQueueName, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		EventsQueueName, // queue name
		"#",             // routing key: all events
		EventsExchange,  // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends a domain event to the events exchange. The payload is
// serialized as JSON; delivery is persistent.
func (c *Client) Publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.Publish(
		EventsExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish event routing_key=%s: %v", routingKey, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published event routing_key=%s: %s", routingKey, string(body))
	return nil
}

// Consume delivers queued events to handler. Handler errors requeue the
// message; unmarshable messages are dropped.
func (c *Client) Consume(handler func(routingKey string, body []byte) error) error {
	msgs, err := c.channel.Consume(
		EventsQueueName, // queue
		"",              // consumer
		false,           // auto-ack
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", EventsQueueName)

	go func() {
		for msg := range msgs {
			if !json.Valid(msg.Body) {
				c.logger.Error("[RABBITMQ] Dropping malformed event body=%s", string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(msg.RoutingKey, msg.Body); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for routing_key=%s: %v", msg.RoutingKey, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// QueueLength returns the number of messages waiting in the events queue.
func (c *Client) QueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(EventsQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
