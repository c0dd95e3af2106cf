package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TopicOTPDeliveries carries outbound message IDs for the OTP sender
const TopicOTPDeliveries = "otp_deliveries"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers to in-process subscribers with retry
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	log        zerolog.Logger
	maxRetries int
	backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log zerolog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		log:        log,
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: q.maxRetries,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			q.log.Debug().Interface("payload", job.Payload).Msg("job processed")
			return // ACK
		}

		job.RetryCount++
		q.log.Warn().Err(err).Interface("payload", job.Payload).
			Int("attempt", job.RetryCount).Int("max_retries", job.MaxRetries).Msg("job failed")

		if job.RetryCount > job.MaxRetries {
			q.log.Error().Interface("payload", job.Payload).Msg("job permanently failed")
			return // No requeue
		}

		// Linear backoff before retry
		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// MessageID extracts an outbound message ID from a queue payload.
func MessageID(payload any) (uuid.UUID, error) {
	switch v := payload.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	default:
		return uuid.Nil, fmt.Errorf("invalid payload type %T, expected message ID", payload)
	}
}

// StartOTPDeliverySubscriber routes message IDs queued on topic to process.
// An empty topic means TopicOTPDeliveries. Payloads that are not message IDs
// are dropped without retry.
func StartOTPDeliverySubscriber(q Queue, topic string, log zerolog.Logger, process func(id uuid.UUID) error) error {
	if topic == "" {
		topic = TopicOTPDeliveries
	}
	return q.Subscribe(topic, func(payload any) error {
		id, err := MessageID(payload)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ dropping queue payload")
			return nil
		}
		return process(id)
	})
}
