// internal/model/customer.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Phone        string     `db:"phone" json:"phone"`
	Name         *string    `db:"name" json:"name,omitempty"`
	CampaignID   uuid.UUID  `db:"campaign_id" json:"campaignId"`
	OwnerID      string     `db:"owner_id" json:"ownerId"`
	Verified     bool       `db:"verified" json:"isVerified"`
	OTPCode      string     `db:"otp_code" json:"-"` // never serialized
	OTPExpiresAt time.Time  `db:"otp_expires_at" json:"otpExpiresAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	VerifiedAt   *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
}

// IsExpired reports whether the code is past its expiry at now. A code is
// still valid at the exact expiry instant.
func (c *Customer) IsExpired(now time.Time) bool {
	return now.After(c.OTPExpiresAt)
}
