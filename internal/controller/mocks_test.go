package controller_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/model"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
)

// memStore backs both repository mocks so verification can bump the counter.
type memStore struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*model.Campaign
	customers map[uuid.UUID]*model.Customer
	seq       int

	listErr error
}

func newMemStore() *memStore {
	return &memStore{
		campaigns: map[uuid.UUID]*model.Campaign{},
		customers: map[uuid.UUID]*model.Customer{},
	}
}

type campaignRepo struct{ *memStore }
type customerRepo struct{ *memStore }

func (m *campaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c.ID = uuid.New()
	c.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *campaignRepo) GetByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewCampaignNotFound(id.String())
	}
	cp := *c
	return &cp, nil
}

func (m *campaignRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.CampaignID == c.CampaignID && existing.Phone == c.Phone {
			return appErrors.ErrDuplicateRegistration
		}
	}
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *customerRepo) ExistsInCampaign(ctx context.Context, campaignID uuid.UUID, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *customerRepo) FindForOwner(ctx context.Context, campaignID uuid.UUID, phone, ownerID string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.Phone == phone && c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, appErrors.NewCustomerNotFound()
}

func (m *customerRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, ownerID string) ([]*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Customer{}
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *customerRepo) MarkVerified(ctx context.Context, c *model.Customer, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.customers[c.ID]
	if !ok || stored.Verified {
		return appErrors.ErrAlreadyVerified
	}
	stored.Verified = true
	stored.VerifiedAt = &at
	m.campaigns[c.CampaignID].CustomerCount++
	c.Verified = true
	c.VerifiedAt = &at
	return nil
}

func (m *customerRepo) ReissueCode(ctx context.Context, customerID uuid.UUID, ownerID, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.customers[customerID]
	if !ok || stored.OwnerID != ownerID || stored.Verified {
		return appErrors.ErrAlreadyVerified
	}
	stored.OTPCode = code
	stored.OTPExpiresAt = expiresAt
	return nil
}

func (m *memStore) code(campaignID uuid.UUID, phone string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.Phone == phone {
			return c.OTPCode
		}
	}
	return ""
}

var (
	_ repository.CampaignRepositoryInterface = (*campaignRepo)(nil)
	_ repository.CustomerRepositoryInterface = (*customerRepo)(nil)
)
