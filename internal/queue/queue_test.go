package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() *InMemoryQueue {
	q := NewInMemoryQueue(zerolog.Nop())
	q.backoff = time.Millisecond
	return q
}

func TestPublishWithoutSubscribers(t *testing.T) {
	q := newTestQueue()
	assert.Error(t, q.Publish(TopicOTPDeliveries, uuid.New()))
}

func TestInMemoryQueueRetriesUntilSuccess(t *testing.T) {
	q := newTestQueue()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	require.NoError(t, q.Subscribe("jobs", func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}))

	require.NoError(t, q.Publish("jobs", 42))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried to success")
	}
	mu.Lock()
	assert.Equal(t, 3, attempts)
	mu.Unlock()
}

func TestInMemoryQueueGivesUp(t *testing.T) {
	q := newTestQueue()

	var wg sync.WaitGroup
	wg.Add(q.maxRetries + 1)
	require.NoError(t, q.Subscribe("jobs", func(payload any) error {
		wg.Done()
		return errors.New("always failing")
	}))
	require.NoError(t, q.Publish("jobs", "x"))

	waited := make(chan struct{})
	go func() { wg.Wait(); close(waited) }()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("expected maxRetries+1 attempts")
	}
}

func TestStartOTPDeliverySubscriber(t *testing.T) {
	q := newTestQueue()
	got := make(chan uuid.UUID, 1)

	require.NoError(t, StartOTPDeliverySubscriber(q, "", zerolog.Nop(), func(id uuid.UUID) error {
		got <- id
		return nil
	}))

	id := uuid.New()
	require.NoError(t, q.Publish(TopicOTPDeliveries, id))

	select {
	case received := <-got:
		assert.Equal(t, id, received)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the message ID")
	}
}

func TestMessageID(t *testing.T) {
	id := uuid.New()

	parsed, err := MessageID(id)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	parsed, err = MessageID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = MessageID(7)
	assert.Error(t, err)
	_, err = MessageID("not-a-uuid")
	assert.Error(t, err)
}

func TestJobRoundTrip(t *testing.T) {
	id := uuid.New()
	body, err := EncodeJob(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outbound_message_id":"`+id.String()+`"}`, string(body))

	decoded, err := DecodeJob(body)
	require.NoError(t, err)
	assert.Equal(t, id.String(), decoded)

	_, err = DecodeJob([]byte(`{"outbound_message_id":"nope"}`))
	assert.Error(t, err)
	_, err = DecodeJob([]byte(`not json`))
	assert.Error(t, err)
}

func TestRetryCount(t *testing.T) {
	assert.Equal(t, int32(0), RetryCount(nil))
	assert.Equal(t, int32(2), RetryCount(amqp.Table{retryHeader: int32(2)}))
	assert.Equal(t, int32(3), RetryCount(amqp.Table{retryHeader: int64(3)}))
	assert.Equal(t, int32(0), RetryCount(amqp.Table{retryHeader: "3"}))
}
