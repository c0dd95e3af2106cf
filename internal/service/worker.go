package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/metrics"
	"github.com/unclebandit/smsleopard-otp/internal/model"
)

// OutboundRepository defines the methods the worker needs
type OutboundRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.OutboundMessage, error)
	Update(ctx context.Context, msg *model.OutboundMessage) error
}

// Sender delivers a rendered message to a phone number
type Sender interface {
	Send(ctx context.Context, recipient, body string) error
}

// LogSender writes the message to the log instead of an SMS gateway.
// Deployments must replace it with a real provider.
type LogSender struct {
	Log zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, recipient, body string) error {
	s.Log.Info().Str("recipient", recipient).Str("body", body).Msg("📩 SMS sent")
	return nil
}

// Worker processes outbound message jobs
type Worker struct {
	OutboundRepo OutboundRepository
	Sender       Sender
	Log          zerolog.Logger
}

// Constructor
func NewWorker(repo OutboundRepository, sender Sender, log zerolog.Logger) *Worker {
	return &Worker{
		OutboundRepo: repo,
		Sender:       sender,
		Log:          log,
	}
}

// Process sends one outbound message and records the outcome. A send failure
// is returned so the queue can retry; already sent or missing messages are
// acknowledged without sending.
func (w *Worker) Process(ctx context.Context, id uuid.UUID) error {
	msg, err := w.OutboundRepo.GetByID(ctx, id)
	if err != nil {
		w.Log.Error().Err(err).Str("message_id", id.String()).Msg("failed to get message")
		return err
	}
	if msg == nil {
		w.Log.Warn().Str("message_id", id.String()).Msg("⚠️ message not found")
		return nil // no retry
	}
	if msg.Status == model.MessageStatusSent {
		return nil
	}

	if sendErr := w.Sender.Send(ctx, msg.Recipient, msg.RenderedContent); sendErr != nil {
		metrics.RecordDelivery(model.MessageStatusFailed)
		msg.Status = model.MessageStatusFailed
		msg.LastError = sendErr.Error()
		msg.RetryCount++
		if err := w.OutboundRepo.Update(ctx, msg); err != nil {
			w.Log.Error().Err(err).Str("message_id", id.String()).Msg("failed to record send failure")
		}
		return sendErr // triggers retry in queue
	}

	metrics.RecordDelivery(model.MessageStatusSent)
	msg.Status = model.MessageStatusSent
	msg.LastError = ""
	if err := w.OutboundRepo.Update(ctx, msg); err != nil {
		w.Log.Error().Err(err).Str("message_id", id.String()).Msg("failed to update message status")
		return err
	}
	return nil
}
