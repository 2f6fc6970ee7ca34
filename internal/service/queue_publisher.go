// Package service provides the RabbitMQ publisher for domain events.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/charlelisefouasse/concert-tickets/internal/queue"
)

// Publisher sends events to RabbitMQ, dialing once per message.
type Publisher struct {
    url string
    log logrus.FieldLogger
}

func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    return &Publisher{url: url, log: log.WithField("component", "rabbitmq")}
}

// PublishTicketExported publishes ev to the ticket.exported queue as a
// persistent JSON message.
func (p *Publisher) PublishTicketExported(ctx context.Context, ev queue.TicketExportedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        p.log.WithError(err).Error("marshal event failed")
        return err
    }
    return p.publish(ctx, queue.TicketExportedQueue, body)
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.WithError(err).Warn("dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.WithError(err).Warn("channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        p.log.WithError(err).Warn("queue declare failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        p.log.WithError(err).Warn("publish failed")
        return err
    }
    p.log.WithField("queue", queueName).Debug("event published")
    return nil
}
