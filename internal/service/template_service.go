// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/smsleopard-otp/internal/model"
)

// DefaultOTPTemplate is used when no template is configured
const DefaultOTPTemplate = "Your verification code for {campaign} is {otp}"

// OTPMessage holds the values a template can reference as {campaign},
// {otp}, {name} and {phone}.
type OTPMessage struct {
	Campaign string
	Code     string
	Name     string
	Phone    string
}

// NewOTPMessage collects the placeholders for the customer's current code.
func NewOTPMessage(campaign *model.Campaign, customer *model.Customer) OTPMessage {
	m := OTPMessage{
		Campaign: campaign.Name,
		Code:     customer.OTPCode,
		Phone:    customer.Phone,
	}
	if customer.Name != nil {
		m.Name = *customer.Name
	}
	return m
}

// Render fills template in a single pass, so substituted values are never
// expanded again. Unknown placeholders are left as written.
func (m OTPMessage) Render(template string) string {
	if template == "" {
		template = DefaultOTPTemplate
	}
	return strings.NewReplacer(
		"{campaign}", m.Campaign,
		"{otp}", m.Code,
		"{name}", m.Name,
		"{phone}", m.Phone,
	).Replace(template)
}
