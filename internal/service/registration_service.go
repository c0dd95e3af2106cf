package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
	"github.com/unclebandit/smsleopard-otp/internal/metrics"
	"github.com/unclebandit/smsleopard-otp/internal/model"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
)

// RegistrationService registers customers against a campaign and issues their codes.
type RegistrationService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	Dispatcher   OTPDispatcher
	Log          zerolog.Logger

	// Now defaults to time.Now and GenerateCode to GenerateOTP.
	Now          func() time.Time
	GenerateCode func() (string, error)
}

// RegisterResult is returned to the caller after a registration or reissue
type RegisterResult struct {
	CustomerID uuid.UUID `json:"customerId"`
	Message    string    `json:"message"`
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *RegistrationService) newCode() (string, time.Time, error) {
	generate := s.GenerateCode
	if generate == nil {
		generate = GenerateOTP
	}
	code, err := generate()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, s.now().Add(OTPTTL), nil
}

// Register creates an unverified customer with a fresh code and hands the
// code to the dispatcher.
func (s *RegistrationService) Register(ctx context.Context, campaignID uuid.UUID, phone string, name *string, ownerID string) (*RegisterResult, error) {
	res, err := s.register(ctx, campaignID, phone, name, ownerID)
	switch {
	case err == nil:
		metrics.RecordRegistration(metrics.ResultSuccess)
	case appErrors.IsExpected(err):
		metrics.RecordRegistration(metrics.ResultRejected)
	default:
		metrics.RecordRegistration(metrics.ResultError)
	}
	return res, err
}

func (s *RegistrationService) register(ctx context.Context, campaignID uuid.UUID, phone string, name *string, ownerID string) (*RegisterResult, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, appErrors.NewValidation("Phone number is required")
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}

	campaign, err := s.CampaignRepo.GetByIDForOwner(ctx, campaignID, ownerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.CustomerRepo.ExistsInCampaign(ctx, campaignID, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.ErrDuplicateRegistration
	}

	code, expiresAt, err := s.newCode()
	if err != nil {
		return nil, err
	}

	customer := &model.Customer{
		ID:           uuid.New(),
		Phone:        phone,
		Name:         name,
		CampaignID:   campaignID,
		OwnerID:      ownerID,
		Verified:     false,
		OTPCode:      code,
		OTPExpiresAt: expiresAt,
		CreatedAt:    s.now(),
	}
	// the unique index still rejects a concurrent duplicate that passed the check above
	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.dispatch(ctx, campaign, customer)

	return &RegisterResult{
		CustomerID: customer.ID,
		Message:    "Customer registered successfully. OTP sent.",
	}, nil
}

// Reissue replaces the code of an unverified customer in place, giving an
// expired registration a way forward without breaking phone uniqueness.
func (s *RegistrationService) Reissue(ctx context.Context, campaignID uuid.UUID, phone, ownerID string) (*RegisterResult, error) {
	if ownerID == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, appErrors.NewValidation("Phone number is required")
	}

	campaign, err := s.CampaignRepo.GetByIDForOwner(ctx, campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	customer, err := s.CustomerRepo.FindForOwner(ctx, campaignID, phone, ownerID)
	if err != nil {
		return nil, err
	}
	if customer.Verified {
		return nil, appErrors.ErrAlreadyVerified
	}

	code, expiresAt, err := s.newCode()
	if err != nil {
		return nil, err
	}
	if err := s.CustomerRepo.ReissueCode(ctx, customer.ID, ownerID, code, expiresAt); err != nil {
		return nil, err
	}
	customer.OTPCode = code
	customer.OTPExpiresAt = expiresAt

	s.dispatch(ctx, campaign, customer)

	return &RegisterResult{
		CustomerID: customer.ID,
		Message:    "OTP reissued.",
	}, nil
}

// dispatch is best effort: the customer row is already committed and a lost
// message can be recovered with Reissue.
func (s *RegistrationService) dispatch(ctx context.Context, campaign *model.Campaign, customer *model.Customer) {
	if s.Dispatcher == nil {
		s.Log.Warn().Str("customer_id", customer.ID.String()).Msg("no OTP dispatcher configured")
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, campaign, customer); err != nil {
		s.Log.Error().Err(err).
			Str("customer_id", customer.ID.String()).
			Str("campaign_id", campaign.ID.String()).
			Msg("failed to dispatch OTP")
		return
	}
	s.Log.Info().
		Str("customer_id", customer.ID.String()).
		Str("campaign_id", campaign.ID.String()).
		Msg("OTP queued for delivery")
}
