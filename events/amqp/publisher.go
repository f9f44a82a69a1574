/*
Package amqp publishes vault events to a RabbitMQ exchange.

Each event is sent as a persistent JSON message. The routing key is
"vault.<kind>", so consumers can bind to all events with "vault.#" or to a
single operation such as "vault.execute".
*/
package amqp

import (
	"context"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds the connection parameters.
type Config struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// DefaultExchange is used when the configuration leaves it empty.
const DefaultExchange = "vault.events"

// Publisher is an events.Sink backed by a RabbitMQ channel.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

var _ events.Sink = (*Publisher)(nil)

// Dial connects to the broker and declares a durable topic exchange.
func Dial(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.Field("URL", errors.ErrEmpty, "amqp url required")
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "amqp dial: %s", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "amqp channel: %s", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "declare exchange %q: %s", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish sends the event to the exchange.
func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	if p == nil || p.ch == nil {
		return errors.Wrap(errors.ErrInvalidState, "amqp publisher not connected")
	}
	msg, err := publishing(e)
	if err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey(e), false, false, msg); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "amqp publish: %s", err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func routingKey(e events.Event) string {
	return "vault." + string(e.Kind)
}

func publishing(e events.Event) (amqp.Publishing, error) {
	body, err := e.Encode()
	if err != nil {
		return amqp.Publishing{}, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.Time,
		Type:         string(e.Kind),
		Body:         body,
	}, nil
}
