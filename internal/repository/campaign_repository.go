package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Campaign, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sqlx.DB
}

const campaignColumns = `id, name, owner_id, customer_count, created_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.CustomerCount = 0

	query := `
		INSERT INTO campaigns (id, name, owner_id, customer_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.OwnerID, c.CustomerCount, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByIDForOwner returns the campaign only when ownerID owns it. Foreign
// campaigns are reported as not found.
func (r *CampaignRepository) GetByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND owner_id = $2`

	var c model.Campaign
	if err := r.DB.GetContext(ctx, &c, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

// ListByOwner returns the owner's campaigns, newest first.
func (r *CampaignRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	campaigns := []*model.Campaign{}
	if err := r.DB.SelectContext(ctx, &campaigns, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
