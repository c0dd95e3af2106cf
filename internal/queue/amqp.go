package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const retryHeader = "x-retry-count"

// Job is the JSON body published to RabbitMQ
type Job struct {
	OutboundMessageID string `json:"outbound_message_id"`
}

// AMQPQueue publishes to and consumes from durable RabbitMQ queues named after the topic.
type AMQPQueue struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	declared   map[string]bool
	log        zerolog.Logger
	MaxRetries int
}

// DialAMQP connects to the broker and opens a channel.
func DialAMQP(url string, log zerolog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return &AMQPQueue{
		conn:       conn,
		ch:         ch,
		declared:   make(map[string]bool),
		log:        log,
		MaxRetries: 3,
	}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

// Publish sends payload (a message ID) as a persistent JSON job
func (q *AMQPQueue) Publish(topic string, payload any) error {
	return q.publish(topic, payload, 0)
}

func (q *AMQPQueue) publish(topic string, payload any, retries int32) error {
	body, err := EncodeJob(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: retries},
			Body:         body,
		},
	)
}

// Subscribe consumes topic with manual acks. A failed job is republished with
// an incremented retry header until MaxRetries, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	if err := q.declare(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			q.handleDelivery(topic, d, handler)
		}
		q.log.Info().Str("topic", topic).Msg("consumer channel closed")
	}()
	return nil
}

func (q *AMQPQueue) handleDelivery(topic string, d amqp.Delivery, handler func(payload any) error) {
	id, err := DecodeJob(d.Body)
	if err != nil {
		q.log.Warn().Err(err).Msg("invalid job")
		d.Ack(false)
		return
	}

	if err := handler(id); err != nil {
		retries := RetryCount(d.Headers) + 1
		if int(retries) <= q.MaxRetries {
			q.log.Warn().Err(err).Str("id", id).Int32("attempt", retries).Msg("job failed, requeueing")
			if perr := q.publish(topic, id, retries); perr != nil {
				q.log.Error().Err(perr).Str("id", id).Msg("failed to requeue job")
				d.Nack(false, true)
				return
			}
		} else {
			q.log.Error().Err(err).Str("id", id).Msg("job permanently failed")
		}
	}
	d.Ack(false)
}

// Close closes the channel and connection
func (q *AMQPQueue) Close() error {
	q.ch.Close()
	return q.conn.Close()
}

// EncodeJob marshals a message ID payload into a job body
func EncodeJob(payload any) ([]byte, error) {
	id, err := MessageID(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{OutboundMessageID: id.String()})
}

// DecodeJob returns the message ID carried by a job body
func DecodeJob(body []byte) (string, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return "", err
	}
	if _, err := MessageID(job.OutboundMessageID); err != nil {
		return "", err
	}
	return job.OutboundMessageID, nil
}

// RetryCount reads the retry header; brokers may hand back any integer width.
func RetryCount(headers amqp.Table) int32 {
	switch v := headers[retryHeader].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	case int16:
		return int32(v)
	case int8:
		return int32(v)
	default:
		return 0
	}
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)
