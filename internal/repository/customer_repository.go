package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/model"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// CustomerRepositoryInterface defines methods used by the registration and verification services
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	ExistsInCampaign(ctx context.Context, campaignID uuid.UUID, phone string) (bool, error)
	FindForOwner(ctx context.Context, campaignID uuid.UUID, phone, ownerID string) (*model.Customer, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, ownerID string) ([]*model.Customer, error)
	MarkVerified(ctx context.Context, c *model.Customer, at time.Time) error
	ReissueCode(ctx context.Context, customerID uuid.UUID, ownerID, code string, expiresAt time.Time) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sqlx.DB
}

const customerColumns = `id, phone, name, campaign_id, owner_id, verified, otp_code, otp_expires_at, created_at, verified_at`

// Create inserts a new unverified customer. A (phone, campaign) conflict is
// reported as ErrDuplicateRegistration.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `
		INSERT INTO customers (id, phone, name, campaign_id, owner_id, verified, otp_code, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Phone, c.Name, c.CampaignID, c.OwnerID, c.OTPCode, c.OTPExpiresAt, c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return appErrors.ErrDuplicateRegistration
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// ExistsInCampaign checks the (phone, campaign) pair regardless of owner.
func (r *CustomerRepository) ExistsInCampaign(ctx context.Context, campaignID uuid.UUID, phone string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE campaign_id = $1 AND phone = $2)`, campaignID, phone)
	if err != nil {
		return false, fmt.Errorf("failed to check customer: %w", err)
	}
	return exists, nil
}

// FindForOwner fetches the customer registered with phone on the campaign,
// scoped to the owning operator.
func (r *CustomerRepository) FindForOwner(ctx context.Context, campaignID uuid.UUID, phone, ownerID string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE campaign_id = $1 AND phone = $2 AND owner_id = $3`

	var c model.Customer
	if err := r.DB.GetContext(ctx, &c, query, campaignID, phone, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound()
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// ListByCampaign fetches the campaign's customers for the owner, newest first.
func (r *CustomerRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID, ownerID string) ([]*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE campaign_id = $1 AND owner_id = $2 ORDER BY created_at DESC, id DESC`

	customers := []*model.Customer{}
	if err := r.DB.SelectContext(ctx, &customers, query, campaignID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// MarkVerified flips the customer to verified and bumps the campaign counter
// in one transaction. The flip only applies while verified is still false; a
// lost race returns ErrAlreadyVerified and leaves the counter untouched.
func (r *CustomerRepository) MarkVerified(ctx context.Context, c *model.Customer, at time.Time) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET verified = TRUE, verified_at = $1
		WHERE id = $2 AND owner_id = $3 AND verified = FALSE
	`, at, c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to mark customer verified: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return appErrors.ErrAlreadyVerified
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE campaigns
		SET customer_count = customer_count + 1, updated_at = $1
		WHERE id = $2 AND owner_id = $3
	`, at, c.CampaignID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to increment customer count: %w", err)
	}
	if rowsAffected, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return appErrors.NewCampaignNotFound(c.CampaignID.String())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.Verified = true
	c.VerifiedAt = &at
	return nil
}

// ReissueCode replaces the code and expiry of a still unverified customer
// owned by ownerID.
func (r *CustomerRepository) ReissueCode(ctx context.Context, customerID uuid.UUID, ownerID, code string, expiresAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE customers
		SET otp_code = $1, otp_expires_at = $2
		WHERE id = $3 AND owner_id = $4 AND verified = FALSE
	`, code, expiresAt, customerID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to reissue code: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return appErrors.ErrAlreadyVerified
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
