package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/model"
	"github.com/unclebandit/smsleopard-otp/internal/queue"
)

// --- Mock Repositories ---

// MockStore keeps campaigns and customers in memory and enforces the same
// ownership, uniqueness and conditional-update rules as the SQL repositories.
type MockStore struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*model.Campaign
	customers map[uuid.UUID]*model.Customer

	CreateErr       error
	MarkVerifiedErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		campaigns: map[uuid.UUID]*model.Campaign{},
		customers: map[uuid.UUID]*model.Customer{},
	}
}

// MockCampaignRepo and MockCustomerRepo are views over one MockStore.
type MockCampaignRepo struct{ *MockStore }
type MockCustomerRepo struct{ *MockStore }

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Add(time.Duration(len(m.campaigns)) * time.Second)
	}
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *MockCampaignRepo) GetByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewCampaignNotFound(id.String())
	}
	cp := *c
	return &cp, nil
}

func (m *MockCampaignRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *MockCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, existing := range m.customers {
		if existing.CampaignID == c.CampaignID && existing.Phone == c.Phone {
			return appErrors.ErrDuplicateRegistration
		}
	}
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MockCustomerRepo) ExistsInCampaign(ctx context.Context, campaignID uuid.UUID, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCustomerRepo) FindForOwner(ctx context.Context, campaignID uuid.UUID, phone, ownerID string) (*model.Customer, error) {
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

func (m *MockCustomerRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, ownerID string) ([]*model.Customer, error) {
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

func (m *MockCustomerRepo) MarkVerified(ctx context.Context, c *model.Customer, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkVerifiedErr != nil {
		return m.MarkVerifiedErr
	}
	stored, ok := m.customers[c.ID]
	if !ok || stored.Verified {
		return appErrors.ErrAlreadyVerified
	}
	campaign, ok := m.campaigns[c.CampaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(c.CampaignID.String())
	}
	stored.Verified = true
	stored.VerifiedAt = &at
	campaign.CustomerCount++
	campaign.UpdatedAt = at

	c.Verified = true
	c.VerifiedAt = &at
	return nil
}

func (m *MockCustomerRepo) ReissueCode(ctx context.Context, customerID uuid.UUID, ownerID, code string, expiresAt time.Time) error {
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

// StoredCode returns the code currently stored for phone on the campaign.
func (m *MockStore) StoredCode(campaignID uuid.UUID, phone string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CampaignID == campaignID && c.Phone == phone {
			return c.OTPCode
		}
	}
	return ""
}

// --- Mock Dispatcher ---

type MockDispatcher struct {
	mu   sync.Mutex
	Sent []*model.Customer
	Err  error
}

func (d *MockDispatcher) Dispatch(ctx context.Context, campaign *model.Campaign, customer *model.Customer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	cp := *customer
	d.Sent = append(d.Sent, &cp)
	return nil
}

// --- Mock Outbox + Queue ---

type MockOutboundRepo struct {
	mu   sync.Mutex
	msgs map[uuid.UUID]*model.OutboundMessage
}

func NewMockOutboundRepo() *MockOutboundRepo {
	return &MockOutboundRepo{msgs: map[uuid.UUID]*model.OutboundMessage{}}
}

func (m *MockOutboundRepo) Create(ctx context.Context, msg *model.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	cp := *msg
	m.msgs[msg.ID] = &cp
	return nil
}

func (m *MockOutboundRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.msgs[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (m *MockOutboundRepo) Update(ctx context.Context, msg *model.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.msgs[msg.ID]; !ok {
		return errors.New("message not found")
	}
	cp := *msg
	m.msgs[msg.ID] = &cp
	return nil
}

type MockQueue struct {
	mu        sync.Mutex
	Published []any
	Err       error
}

func (q *MockQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Published = append(q.Published, payload)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

var _ queue.Queue = (*MockQueue)(nil)

// --- Clock ---

type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock { return &FakeClock{now: t} }

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
