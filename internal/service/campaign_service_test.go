package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
)

func TestCreateCampaign(t *testing.T) {
	f := newFixture(t)

	c, err := f.campaigns.CreateCampaign(context.Background(), "  Summer Sale ", operatorA)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "Summer Sale", c.Name)
	assert.Equal(t, operatorA, c.OwnerID)
	assert.Zero(t, c.CustomerCount)

	_, err = f.campaigns.CreateCampaign(context.Background(), "   ", operatorA)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.campaigns.CreateCampaign(context.Background(), "Summer Sale", "")
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)
}

func TestListCampaignsNewestFirstAndScoped(t *testing.T) {
	f := newFixture(t)
	first := f.campaign(t, operatorA, "Spring")
	second := f.campaign(t, operatorA, "Summer")
	f.campaign(t, operatorB, "Not mine")

	campaigns, err := f.campaigns.ListCampaigns(context.Background(), operatorA)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, second.ID, campaigns[0].ID)
	assert.Equal(t, first.ID, campaigns[1].ID)

	none, err := f.campaigns.ListCampaigns(context.Background(), "op-c")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetCampaignCrossOwnerIsNotFound(t *testing.T) {
	f := newFixture(t)
	c := f.campaign(t, operatorA, "Summer Sale")

	got, err := f.campaigns.GetCampaign(context.Background(), c.ID, operatorA)
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", got.Name)

	_, err = f.campaigns.GetCampaign(context.Background(), c.ID, operatorB)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	var notFound *appErrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "campaign", notFound.Resource)
}

func TestListCustomersScoped(t *testing.T) {
	f := newFixture(t)
	c := f.campaign(t, operatorA, "Summer Sale")
	f.register(t, c, "111")
	f.clock.Advance(1)
	f.register(t, c, "222")

	customers, err := f.campaigns.ListCustomers(context.Background(), c.ID, operatorA)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "222", customers[0].Phone)
	assert.Equal(t, "111", customers[1].Phone)

	_, err = f.campaigns.ListCustomers(context.Background(), c.ID, operatorB)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
