package service

import (
	"context"
	"fmt"

	"github.com/unclebandit/smsleopard-otp/internal/model"
	"github.com/unclebandit/smsleopard-otp/internal/queue"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
)

// OTPDispatcher hands a freshly generated code to the out-of-band channel.
type OTPDispatcher interface {
	Dispatch(ctx context.Context, campaign *model.Campaign, customer *model.Customer) error
}

// OutboxDispatcher records the rendered OTP message and queues its ID for the sender.
type OutboxDispatcher struct {
	OutboundRepo repository.OutboundMessageRepositoryInterface
	Queue        queue.Queue
	Template     string
	// Topic defaults to queue.TopicOTPDeliveries
	Topic string
}

func (d *OutboxDispatcher) Dispatch(ctx context.Context, campaign *model.Campaign, customer *model.Customer) error {
	msg := &model.OutboundMessage{
		CampaignID:      campaign.ID,
		CustomerID:      customer.ID,
		Recipient:       customer.Phone,
		Status:          model.MessageStatusPending,
		RenderedContent: NewOTPMessage(campaign, customer).Render(d.Template),
	}
	if err := d.OutboundRepo.Create(ctx, msg); err != nil {
		return err
	}
	topic := d.Topic
	if topic == "" {
		topic = queue.TopicOTPDeliveries
	}
	if err := d.Queue.Publish(topic, msg.ID); err != nil {
		return fmt.Errorf("failed to enqueue message %s: %w", msg.ID, err)
	}
	return nil
}

var _ OTPDispatcher = (*OutboxDispatcher)(nil)
