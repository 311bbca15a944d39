package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	model "hidden-market/internal/models"
	"hidden-market/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange change events are published to
const DefaultExchange = "market_events"

// AMQPBroker carries change events over a RabbitMQ topic exchange so several
// server processes can share one feed
type AMQPBroker struct {
	conn     *amqp.Connection
	exchange string

	mu  sync.Mutex
	pub *amqp.Channel
}

// DialAMQP connects to url and declares the exchange
func DialAMQP(url, exchange string) (*AMQPBroker, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("feed: dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("feed: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("feed: declare exchange %s: %w", exchange, err)
	}

	return &AMQPBroker{conn: conn, exchange: exchange, pub: ch}, nil
}

// RoutingKey returns the topic an event is published under, e.g. "bids.insert"
func RoutingKey(ev model.ChangeEvent) string {
	return string(ev.Kind) + "." + strings.ToLower(string(ev.Op))
}

// Publish sends ev as a JSON message
func (b *AMQPBroker) Publish(ctx context.Context, ev model.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("feed: encode event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.pub.PublishWithContext(ctx,
		b.exchange,
		RoutingKey(ev),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("feed: publish to exchange %s: %w", b.exchange, err)
	}
	return nil
}

// Subscribe binds a temporary queue to every routing key. The returned
// channel closes when ctx ends or the broker connection drops; there is no
// reconnect.
func (b *AMQPBroker) Subscribe(ctx context.Context) (<-chan model.ChangeEvent, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("feed: open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("feed: declare temp queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", b.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("feed: bind queue to exchange %s: %w", b.exchange, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("feed: consume %s: %w", q.Name, err)
	}

	out := make(chan model.ChangeEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					utils.Warn("feed: amqp deliveries closed", map[string]any{"queue": q.Name})
					return
				}
				ev, err := DecodeEvent(d.Body)
				if err != nil {
					utils.Warn("feed: dropping undecodable event", map[string]any{"error": err.Error()})
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// DecodeEvent parses a JSON change event and rejects unknown kinds
func DecodeEvent(body []byte) (model.ChangeEvent, error) {
	var ev model.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return model.ChangeEvent{}, fmt.Errorf("feed: decode event: %w", err)
	}
	switch ev.Kind {
	case model.KindListings, model.KindBids, model.KindMessages:
	default:
		return model.ChangeEvent{}, fmt.Errorf("feed: unknown event kind %q", ev.Kind)
	}
	return ev, nil
}

// Close shuts the publishing channel and the connection
func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pub.Close()
	return b.conn.Close()
}
