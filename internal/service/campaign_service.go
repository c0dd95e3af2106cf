// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/model"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
)

// CampaignService serves the read side and campaign creation. Every call is
// scoped to the operator passed in.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
}

func (s *CampaignService) CreateCampaign(ctx context.Context, name, ownerID string) (*model.Campaign, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.NewValidation("Campaign name is required")
	}

	c := &model.Campaign{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns returns the operator's campaigns, newest first
func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	return s.CampaignRepo.ListByOwner(ctx, ownerID)
}

// GetCampaign fetches one campaign; foreign campaigns are not found
func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID, ownerID string) (*model.Campaign, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	return s.CampaignRepo.GetByIDForOwner(ctx, id, ownerID)
}

// ListCustomers returns the customers of an owned campaign, newest first
func (s *CampaignService) ListCustomers(ctx context.Context, campaignID uuid.UUID, ownerID string) ([]*model.Customer, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	if _, err := s.CampaignRepo.GetByIDForOwner(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}
	return s.CustomerRepo.ListByCampaign(ctx, campaignID, ownerID)
}
