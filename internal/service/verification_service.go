package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/metrics"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
)

// VerificationService confirms customers by their one-time code.
type VerificationService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Log          zerolog.Logger
	Now          func() time.Time
}

// VerifiedCustomer is the view returned after a successful verification
type VerifiedCustomer struct {
	ID         uuid.UUID  `json:"id"`
	Phone      string     `json:"phone"`
	Name       *string    `json:"name,omitempty"`
	Verified   bool       `json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt"`
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Verify checks submittedCode for the customer registered with phone on the
// campaign. Checks run in a fixed order: already verified, expired, wrong code.
func (s *VerificationService) Verify(ctx context.Context, campaignID uuid.UUID, phone, submittedCode, ownerID string) (*VerifiedCustomer, error) {
	res, err := s.verify(ctx, campaignID, phone, submittedCode, ownerID)
	switch {
	case err == nil:
		metrics.RecordVerification(metrics.ResultSuccess)
	case appErrors.IsExpected(err):
		metrics.RecordVerification(metrics.ResultRejected)
	default:
		metrics.RecordVerification(metrics.ResultError)
	}
	return res, err
}

func (s *VerificationService) verify(ctx context.Context, campaignID uuid.UUID, phone, submittedCode, ownerID string) (*VerifiedCustomer, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	phone = strings.TrimSpace(phone)
	if phone == "" || submittedCode == "" {
		return nil, appErrors.NewValidation("Phone number and OTP are required")
	}

	customer, err := s.CustomerRepo.FindForOwner(ctx, campaignID, phone, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if customer.Verified {
		return nil, appErrors.ErrAlreadyVerified
	}
	if customer.IsExpired(now) {
		return nil, appErrors.ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(customer.OTPCode), []byte(submittedCode)) != 1 {
		return nil, appErrors.ErrInvalidCode
	}

	// flips verified only if still false and bumps the campaign count in the same transaction
	if err := s.CustomerRepo.MarkVerified(ctx, customer, now); err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("customer_id", customer.ID.String()).
		Str("campaign_id", campaignID.String()).
		Msg("customer verified")

	return &VerifiedCustomer{
		ID:         customer.ID,
		Phone:      customer.Phone,
		Name:       customer.Name,
		Verified:   customer.Verified,
		VerifiedAt: customer.VerifiedAt,
	}, nil
}
