// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch provides outbound dispatcher implementations.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// AMQP DISPATCHER
// =============================================================================

// Routing keys, one per action kind.
const (
	keySendMessage  = "composer.send_message"
	keyEditMessage  = "composer.edit_message"
	keyInlineResult = "composer.send_inline_result"
	keyForward      = "composer.forward_messages"
	keyTypingAction = "composer.typing_action"
)

// publishTimeout bounds one broker round trip; the composer must never hang
// on a send because the broker is slow.
const publishTimeout = 5 * time.Second

// AMQPDispatcher publishes composer actions to a RabbitMQ topic exchange.
type AMQPDispatcher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPDispatcher connects to the broker and declares the exchange.
func NewAMQPDispatcher(url, exchange string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &AMQPDispatcher{conn: conn, exchange: exchange}, nil
}

// Close releases the broker connection.
func (d *AMQPDispatcher) Close() error {
	return d.conn.Close()
}

// publish serializes payload and publishes it under the given routing key.
func (d *AMQPDispatcher) publish(key string, payload any) error {
	ch, err := d.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return ch.PublishWithContext(ctx, d.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// SendMessage implements store.Dispatcher.
func (d *AMQPDispatcher) SendMessage(req model.SendRequest) error {
	return d.publish(keySendMessage, req)
}

// EditMessage implements store.Dispatcher.
func (d *AMQPDispatcher) EditMessage(req model.EditRequest) error {
	return d.publish(keyEditMessage, req)
}

// SendInlineBotResult implements store.Dispatcher.
func (d *AMQPDispatcher) SendInlineBotResult(req model.SendRequest) error {
	return d.publish(keyInlineResult, req)
}

// ForwardMessages implements store.Dispatcher.
func (d *AMQPDispatcher) ForwardMessages(req model.ForwardRequest) error {
	return d.publish(keyForward, req)
}

// SendTypingAction implements store.Dispatcher. Typing actions are
// transient, so they publish non-persistent.
func (d *AMQPDispatcher) SendTypingAction(chatID, threadID, action string) error {
	ch, err := d.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(map[string]string{
		"chat_id":   chatID,
		"thread_id": threadID,
		"action":    action,
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return ch.PublishWithContext(ctx, d.exchange, keyTypingAction, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
}
