package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/talent-hub/internal/queue"
)

// AMQPPublisher publishes event.created messages to RabbitMQ, dialing once
// per publish.
type AMQPPublisher struct {
    URL string
    Log logrus.FieldLogger
}

// Publish sends ev to the durable event.created queue as a persistent JSON
// message.  Errors are logged and returned so the caller can fall back.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.EventCreated) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        p.Log.WithError(err).Warn("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.Log.WithError(err).Warn("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(queue.EventCreatedQueue, true, false, false, false, nil); err != nil {
        p.Log.WithError(err).Warn("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.EventCreatedQueue, false, false, pub); err != nil {
        p.Log.WithError(err).Warn("rabbitmq: publish failed")
        return err
    }
    return nil
}
