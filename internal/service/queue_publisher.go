// Package service holds integrations the HTTP layer calls after a request
// has been handled. Currently that is the RabbitMQ change-feed publisher.
package service

import (
    "context"
    "encoding/json"
    "errors"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/mamutes/party-service/internal/queue"
)

var errClosed = errors.New("publisher closed")

// Publisher sends ChangeEvents to the party.changes queue. The connection
// is opened lazily and reopened after any failure, so a broker outage costs
// failed publishes but never a failed startup.
type Publisher struct {
    url string
    log *zap.Logger

    mu     sync.Mutex
    conn   *amqp.Connection
    ch     *amqp.Channel
    closed bool
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
    return &Publisher{url: url, log: log}
}

// Publish marshals ev and sends it as a persistent message. Errors are
// logged and returned so the caller can choose to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev queue.ChangeEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return errClosed
    }
    ch, err := p.channel()
    if err != nil {
        p.log.Warn("rabbitmq: connect failed", zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.MessageID,
        Timestamp:    time.Now().UTC(),
        Type:         string(ev.Action),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                 // default exchange
        queue.ChangesQueue, // routing key = queue name
        false,              // mandatory
        false,              // immediate
        pub,
    ); err != nil {
        p.log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("message_id", ev.MessageID))
        p.reset()
        return err
    }
    return nil
}

// channel returns the open channel, dialing when needed. p.mu must be held.
func (p *Publisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()

    conn, err := amqp.Dial(p.url)
    if err != nil {
        return nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, err
    }
    // Idempotent; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue.ChangesQueue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}

// Close releases the broker connection. Later publishes fail.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.closed = true
    p.reset()
    return nil
}
