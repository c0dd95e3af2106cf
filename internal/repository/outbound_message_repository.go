package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/smsleopard-otp/internal/model"
)

// OutboundMessageRepositoryInterface is the OTP outbox used by registration and the sender.
type OutboundMessageRepositoryInterface interface {
	Create(ctx context.Context, msg *model.OutboundMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.OutboundMessage, error)
	Update(ctx context.Context, msg *model.OutboundMessage) error
}

type OutboundMessageRepository struct {
	DB *sqlx.DB
}

// Create inserts a new outbound message into the database
func (r *OutboundMessageRepository) Create(ctx context.Context, msg *model.OutboundMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	now := time.Now().UTC()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.Status == "" {
		msg.Status = model.MessageStatusPending
	}

	query := `
		INSERT INTO outbound_messages
		(id, campaign_id, customer_id, recipient, status, rendered_content, last_error, retry_count, created_at, updated_at)
		VALUES (:id, :campaign_id, :customer_id, :recipient, :status, :rendered_content, :last_error, :retry_count, :created_at, :updated_at)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("failed to create outbound message: %w", err)
	}
	return nil
}

// Update updates status, last_error and retry_count of an existing message
func (r *OutboundMessageRepository) Update(ctx context.Context, msg *model.OutboundMessage) error {
	msg.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE outbound_messages
		SET status = $1, last_error = $2, retry_count = $3, updated_at = $4
		WHERE id = $5
	`
	if _, err := r.DB.ExecContext(ctx, query, msg.Status, msg.LastError, msg.RetryCount, msg.UpdatedAt, msg.ID); err != nil {
		return fmt.Errorf("failed to update outbound message: %w", err)
	}
	return nil
}

// GetByID fetches an outbound message by its ID. A missing message returns nil, nil.
func (r *OutboundMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OutboundMessage, error) {
	query := `
		SELECT id, campaign_id, customer_id, recipient, status, rendered_content, last_error, retry_count, created_at, updated_at
		FROM outbound_messages
		WHERE id = $1
	`
	var msg model.OutboundMessage
	if err := r.DB.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outbound message: %w", err)
	}
	return &msg, nil
}

var _ OutboundMessageRepositoryInterface = (*OutboundMessageRepository)(nil)
