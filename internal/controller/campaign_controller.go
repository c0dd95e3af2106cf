// internal/controller/campaign_controller.go
package controller

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/auth"
	"github.com/unclebandit/smsleopard-otp/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Log             zerolog.Logger
}

type createCampaignRequest struct {
	Name string `json:"name" validate:"required"`
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), body.Name, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns(r.Context(), auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	campaign, err := c.CampaignService.GetCampaign(r.Context(), id, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	customers, err := c.CampaignService.ListCustomers(r.Context(), id, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}
