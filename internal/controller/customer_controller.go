// internal/controller/customer_controller.go
package controller

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/auth"
	"github.com/unclebandit/smsleopard-otp/internal/service"
)

// CustomerController handles registration and OTP verification under a campaign
type CustomerController struct {
	Registration *service.RegistrationService
	Verification *service.VerificationService
	Log          zerolog.Logger
}

type registerRequest struct {
	Phone string  `json:"phone" validate:"required"`
	Name  *string `json:"name,omitempty"`
}

type verifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type reissueRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type verifyResponse struct {
	Message  string                    `json:"message"`
	Customer *service.VerifiedCustomer `json:"customer"`
}

func (c *CustomerController) Register(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body registerRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	res, err := c.Registration.Register(r.Context(), id, body.Phone, body.Name, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (c *CustomerController) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body verifyRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	customer, err := c.Verification.Verify(r.Context(), id, body.Phone, body.OTP, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Message:  "Customer verified successfully",
		Customer: customer,
	})
}

// Reissue sends a fresh code to a customer who has not verified yet
func (c *CustomerController) Reissue(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body reissueRequest
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	res, err := c.Registration.Reissue(r.Context(), id, body.Phone, auth.OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
